// Package tool declares the structured actions the completion service
// may invoke and implements their local execution.
package tool

// Tool names recognized by the conversation controller.
const (
	NameBookAppointment        = "bookAppointment"
	NameDisplayAppointmentForm = "displayAppointmentForm"
)

// Field is one parameter of a tool declaration.
type Field struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

// Declaration describes one tool in a provider-neutral form. Each
// completion client converts declarations to its own schema dialect.
type Declaration struct {
	Name        string
	Description string
	Fields      []Field
}

// Catalog returns the static set of tools offered to the completion
// service on every call.
func Catalog() []Declaration {
	return []Declaration{
		{
			Name:        NameBookAppointment,
			Description: "Books a service or consultation appointment for a customer.",
			Fields: []Field{
				{Name: "name", Type: "string", Description: "The full name of the customer.", Required: true},
				{Name: "contact", Type: "string", Description: "The customer's phone number or email address.", Required: true},
				{Name: "date", Type: "string", Description: `The requested date for the appointment, e.g., "tomorrow" or "2024-08-15".`, Required: true},
				{Name: "time", Type: "string", Description: `The requested time for the appointment, e.g., "morning" or "2 PM".`},
				{Name: "reason", Type: "string", Description: `A brief description of the service needed, e.g., "laptop repair" or "network setup consultation".`, Required: true},
			},
		},
		{
			Name:        NameDisplayAppointmentForm,
			Description: "Displays the structured appointment booking form to the customer.",
		},
	}
}
