package notification

import "fmt"

// Message renders the body of a notification from template fields.
// Missing fields render as empty strings.
func Message(t Type, entityID string, f map[string]string) string {
	switch t {
	case TypeContractFulfilled:
		msg := fmt.Sprintf("Contract %s fulfilled: %s lessons completed", entityID, f["summary"])
		if f["excluded"] != "" && f["excluded"] != "0" {
			msg += fmt.Sprintf(" (%s excluded)", f["excluded"])
		}
		return msg
	case TypeAppointmentOpened:
		return fmt.Sprintf("New appointment %s is open: %s (%s)", entityID, f["candidate"], f["specialty"])
	case TypeAppointmentAssigned:
		return fmt.Sprintf("You were nominated for appointment %s: %s (%s)", entityID, f["candidate"], f["specialty"])
	case TypeAppointmentDeclined:
		return fmt.Sprintf("Appointment %s was declined by %s and is open again: %s (%s)", entityID, f["actor"], f["candidate"], f["specialty"])
	case TypeAppointmentAccepted:
		return fmt.Sprintf("Appointment %s was accepted by %s: %s (%s)", entityID, f["actor"], f["candidate"], f["specialty"])
	}
	return fmt.Sprintf("%s on %s", t, entityID)
}
