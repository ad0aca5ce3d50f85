package willexec

import (
	"fmt"
	"strings"

	"memento/internal/content"
	"memento/internal/directory"
)

const purposeExecutionGuide = "execution_guide"

var actionLabels = map[directory.AssetAction]string{
	directory.ActionDelete:      "delete the account",
	directory.ActionTransfer:    "transfer the account",
	directory.ActionKeep:        "keep the account as it is",
	directory.ActionMemorialize: "turn it into a memorial account",
	directory.ActionOther:       "other handling",
}

func guidePrompt(deceased string, d directory.AssetDirective) content.Prompt {
	return content.Prompt{
		Purpose: purposeExecutionGuide,
		Locale:  "en",
		Facts: map[string]string{
			"deceased":    deceased,
			"service":     serviceName(d),
			"category":    d.Category,
			"action":      string(d.Action),
			"login_hint":  d.LoginHint,
			"note":        d.Note,
			"beneficiary": d.BeneficiaryName,
		},
	}
}

func serviceName(d directory.AssetDirective) string {
	if d.ServiceName == "" {
		return "this service"
	}
	return d.ServiceName
}

// guideFallback renders the built-in guide from the prompt facts.
func guideFallback(p content.Prompt) string {
	f := p.Facts
	service := f["service"]
	action, ok := actionLabels[directory.AssetAction(f["action"])]
	if !ok {
		action = "handle the account"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello,\n\nThis is a guide for the %q account left by %s.\n\n", service, f["deceased"])
	fmt.Fprintf(&b, "Requested action: %s\n", action)
	if hint := f["login_hint"]; hint != "" {
		fmt.Fprintf(&b, "Registered login: %s\n", hint)
	}
	b.WriteString("\nSuggested steps:\n")
	b.WriteString(categoryGuide(f["category"], service))
	if note := f["note"]; note != "" {
		fmt.Fprintf(&b, "\n\nA note they left:\n%s", note)
	}
	b.WriteString(`

Important:
- This guide was generated by Memento for your convenience. It is not a will and has no legal force.
- Check the service's own policy and the applicable law before closing, transferring or exporting anything.
- Consider asking a lawyer when in doubt.

Memento
`)
	return b.String()
}

func categoryGuide(category, service string) string {
	name := strings.ToLower(service)
	var guide string
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "subscription":
		guide = "- Sign in and cancel the subscription or membership from the account settings.\n" +
			"- Also stop any automatic card or bank payments tied to it."
		if strings.Contains(name, "netflix") {
			guide += "\n- On Netflix: sign in from a browser, open Account and choose Cancel Membership."
		}
	case "sns", "social":
		guide = "- Look for account deletion or deactivation under the security or account settings.\n" +
			"- Many networks offer a memorial account; request it if that is what they wanted."
	case "finance", "bank":
		guide = "- Notify the bank, broker or card issuer through their support line or a branch.\n" +
			"  Accounts are closed or transferred as part of the estate process.\n" +
			"- This email has no legal force; follow the institution's official instructions."
	case "cloud":
		guide = "- Download or back up anything important before deleting or closing the account.\n" +
			"- Check for charges from storage over the free quota."
	default:
		guide = "- Find the account deletion or cancellation steps in the service's help pages."
	}
	if strings.Contains(name, "gmail") || strings.Contains(name, "google") {
		guide += "\n\nGoogle accounts:\n" +
			"- https://takeout.google.com exports mail, photos and documents.\n" +
			"- Deleting the account cannot be undone, so export first."
	}
	return guide
}

func willLocationBody(deceased string, will *directory.WillDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello,\n\n%s registered the location of their will with Memento.\n\n", deceased)
	if will.StorageLocation != "" {
		fmt.Fprintf(&b, "Where it is kept: %s\n", will.StorageLocation)
	}
	if will.FileURL != "" {
		fmt.Fprintf(&b, "Digital copy: %s\n", will.FileURL)
	}
	b.WriteString("\nMemento\n")
	return b.String()
}
