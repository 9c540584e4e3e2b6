package notify

import (
	"fmt"
	"strings"
	"time"
)

// AdverseAction describes a rejected application for the notice owed to the
// applicant.
type AdverseAction struct {
	ApplicantName     string
	Email             string
	Reason            string
	ScoreReason       string
	DecidedBy         string
	DecidedAt         time.Time
	CreditProvider    string
	ScreeningProvider string
}

func AdverseActionNotice(a AdverseAction) Message {
	var b strings.Builder

	fmt.Fprintf(&b, "Dear %s,\n\n", a.ApplicantName)
	fmt.Fprintf(&b, "Thank you for your rental application. After review on %s, we are unable to approve it.\n\n",
		a.DecidedAt.Format("January 2, 2006"))

	if a.Reason != "" {
		fmt.Fprintf(&b, "Reason for this decision: %s\n", a.Reason)
	}

	if a.ScoreReason != "" {
		fmt.Fprintf(&b, "Screening summary: %s\n", a.ScoreReason)
	}

	b.WriteString("\nThis decision was based in whole or in part on information obtained from consumer reports.\n")

	for _, provider := range []string{a.CreditProvider, a.ScreeningProvider} {
		if provider != "" {
			fmt.Fprintf(&b, "Reporting agency: %s\n", provider)
		}
	}

	b.WriteString("\nYou have the right to obtain a free copy of your report from the reporting agency within 60 days ")
	b.WriteString("and to dispute the accuracy or completeness of any information it contains.\n\n")
	fmt.Fprintf(&b, "Sincerely,\n%s\n", a.DecidedBy)

	return Message{
		To:      []string{a.Email},
		Subject: "Notice of adverse action on your rental application",
		Body:    b.String(),
	}
}

// Decision describes the outcome sent to an applicant when no adverse action
// notice is owed: an approval, a conditional approval or a plain rejection.
type Decision struct {
	ApplicantName string
	Email         string
	Approved      bool
	Rejected      bool
	Reason        string
	Conditions    []string
	DecidedBy     string
}

func DecisionNotice(d Decision) Message {
	var b strings.Builder

	fmt.Fprintf(&b, "Dear %s,\n\n", d.ApplicantName)

	subject := "Your rental application has been approved"

	switch {
	case d.Rejected:
		subject = "Your rental application has not been approved"

		b.WriteString("Thank you for your interest. After reviewing your rental application, we are unable to approve it at this time.\n")

		if d.Reason != "" {
			fmt.Fprintf(&b, "\nReason for this decision: %s\n", d.Reason)
		}

		fmt.Fprintf(&b, "\nSincerely,\n%s\n", d.DecidedBy)

		return Message{To: []string{d.Email}, Subject: subject, Body: b.String()}
	case d.Approved:
		b.WriteString("We are happy to let you know that your rental application has been approved.\n")
	default:
		subject = "Your rental application has been conditionally approved"

		b.WriteString("Your rental application has been approved subject to the following conditions:\n\n")

		for _, c := range d.Conditions {
			fmt.Fprintf(&b, "  - %s\n", c)
		}
	}

	fmt.Fprintf(&b, "\nWe will be in touch about next steps.\n\nSincerely,\n%s\n", d.DecidedBy)

	return Message{To: []string{d.Email}, Subject: subject, Body: b.String()}
}

// MaintenanceApproved tells a tenant their maintenance request became a work order.
func MaintenanceApproved(email, tenantName, title string) Message {
	return Message{
		To:      []string{email},
		Subject: "Maintenance request approved: " + title,
		Body: fmt.Sprintf("Hi %s,\n\nYour maintenance request %q has been approved and a work order has been created. "+
			"We will contact you to schedule the work.\n", tenantName, title),
	}
}

// LoginCode carries a one-time tenant portal login code.
func LoginCode(email, tenantName, code string, ttl time.Duration) Message {
	return Message{
		To:      []string{email},
		Subject: "Your tenant portal login code",
		Body: fmt.Sprintf("Hi %s,\n\nYour login code is %s. It expires in %s and can be used once.\n\n"+
			"If you did not ask to sign in, you can ignore this email.\n", tenantName, code, ttl),
	}
}
