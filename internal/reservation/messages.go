package reservation

import (
	"fmt"
	"strings"
	"time"

	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/timeutil"
)

func describe(r *Reservation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Code: %s\n", r.Code)
	if r.ResourceName != "" {
		fmt.Fprintf(&b, "Resource: %s\n", r.ResourceName)
	}
	fmt.Fprintf(&b, "Date: %s (%s)\n", timeutil.FormatDate(r.Date), timeutil.WeekdayName(timeutil.Weekday(r.Date)))
	fmt.Fprintf(&b, "Time: %s - %s\n", r.Start, r.End)
	if len(r.Services) > 0 {
		b.WriteString("Services:\n")
		for _, s := range r.Services {
			fmt.Fprintf(&b, "  - %s: %s\n", s.Name, s.Price.StringFixed(2))
		}
		fmt.Fprintf(&b, "Total: %s\n", r.Total().StringFixed(2))
	}
	return b.String()
}

func verificationMessage(r *Reservation, link string) (string, string) {
	subject := fmt.Sprintf("Verify your reservation request %s", r.Code)
	body := fmt.Sprintf("Hello %s,\n\nPlease confirm your e-mail address to send your request to our staff:\n%s\n\n%s",
		r.ClientName, link, describe(r))
	return subject, body
}

func receivedMessage(r *Reservation) (string, string) {
	subject := fmt.Sprintf("Reservation request %s received", r.Code)
	body := fmt.Sprintf("Hello %s,\n\nWe received your request. Our staff will review it shortly.\n\n%s",
		r.ClientName, describe(r))
	return subject, body
}

func staffRequestMessage(r *Reservation) (string, string) {
	subject := fmt.Sprintf("New reservation request %s", r.Code)
	body := fmt.Sprintf("%s\nClient: %s\nE-mail: %s\nPhone: %s\n", describe(r), r.ClientName, r.ClientEmail, r.ClientPhone)
	if r.Notes != "" {
		body += "Notes: " + r.Notes + "\n"
	}
	return subject, body
}

func confirmationMessage(r *Reservation, confirmedAt time.Time) (string, string) {
	subject := fmt.Sprintf("Reservation %s confirmed", r.Code)
	body := fmt.Sprintf("Hello %s,\n\nYour reservation was confirmed on %s.\n\n%s",
		r.ClientName, confirmedAt.Format("2006-01-02 15:04"), describe(r))
	return subject, body
}
