package model

import "fmt"

// AppointmentRequest is the transient value extracted from a
// bookAppointment tool call. It is never persisted; it lives only long
// enough to run the mock booking and compose the confirmation text.
type AppointmentRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Date    string `json:"date"`
	Time    string `json:"time,omitempty"`
	Reason  string `json:"reason"`
}

// AppointmentResult is the executor's acknowledgment of a booking.
type AppointmentResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// AppointmentFromArgs extracts an AppointmentRequest from the raw
// argument map of a tool call. Non-string values are stringified rather
// than rejected; presence of required fields is the executor's concern.
func AppointmentFromArgs(args map[string]any) AppointmentRequest {
	return AppointmentRequest{
		Name:    argString(args, "name"),
		Contact: argString(args, "contact"),
		Date:    argString(args, "date"),
		Time:    argString(args, "time"),
		Reason:  argString(args, "reason"),
	}
}

func argString(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
