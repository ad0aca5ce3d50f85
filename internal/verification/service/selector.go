package service

import "memento/internal/directory"

// ContactSelector picks the contacts asked to attest from the target's
// contacts, which arrive in registration order.
type ContactSelector func(contacts []directory.TrustedContact) []directory.TrustedContact

// FirstRegistered picks the first n contacts by registration order.
func FirstRegistered(n int) ContactSelector {
	return func(contacts []directory.TrustedContact) []directory.TrustedContact {
		if len(contacts) <= n {
			return contacts
		}
		return contacts[:n]
	}
}

// WithEmailFirst prefers contacts that can be reached by email, then falls
// back to registration order.
func WithEmailFirst(n int) ContactSelector {
	return func(contacts []directory.TrustedContact) []directory.TrustedContact {
		out := make([]directory.TrustedContact, 0, n)
		for _, c := range contacts {
			if len(out) == n {
				return out
			}
			if c.Email != "" {
				out = append(out, c)
			}
		}
		for _, c := range contacts {
			if len(out) == n {
				break
			}
			if c.Email == "" {
				out = append(out, c)
			}
		}
		return out
	}
}
