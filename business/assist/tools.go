package assist

const (
	ToolCaptureName = "capture_customer_name"
	ToolTakeNote    = "take_note"
	ToolDelegate    = "delegate_to_specialist"
	ToolReturn      = "return_to_lead"
)

type ToolParam struct {
	Name        string
	Description string
	Required    bool
}

// Tool describes one callable capability exposed to the response
// generator. All parameters are plain strings.
type Tool struct {
	Name        string
	Description string
	Params      []ToolParam
}

var catalog = map[string]Tool{
	ToolCaptureName: {
		Name:        ToolCaptureName,
		Description: "Store the customer's name once they introduce themselves.",
		Params: []ToolParam{
			{Name: "name", Description: "The customer's name as they stated it.", Required: true},
		},
	},
	ToolTakeNote: {
		Name:        ToolTakeNote,
		Description: "Record a short note about something important the customer said.",
		Params: []ToolParam{
			{Name: "note", Description: "The note to record.", Required: true},
		},
	},
	ToolDelegate: {
		Name:        ToolDelegate,
		Description: "Hand the conversation to a specialist persona better suited to answer.",
		Params: []ToolParam{
			{Name: "persona", Description: "The id of the specialist persona to hand over to.", Required: true},
			{Name: "question", Description: "The question the specialist should answer.", Required: false},
		},
	},
	ToolReturn: {
		Name:        ToolReturn,
		Description: "Hand the conversation back to the lead persona.",
	},
}

func LookupTool(name string) (Tool, bool) {
	t, exists := catalog[name]
	return t, exists
}

// ToolsFor resolves a persona's declared tool names against the
// catalog, preserving declaration order.
func ToolsFor(p *Persona) []Tool {
	tools := make([]Tool, 0, len(p.Tools))
	for _, name := range p.Tools {
		if t, exists := catalog[name]; exists {
			tools = append(tools, t)
		}
	}
	return tools
}
