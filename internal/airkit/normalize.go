package airkit

import "strings"

// Profile is the canonical identity extracted from a LoginResult. It is the
// only shape the rest of the gateway sees; every accepted service response
// variant funnels through Normalize.
type Profile struct {
	Subject                string
	Email                  string
	Name                   string
	Wallet                 string
	AbstractAccountAddress string
	LinkedAccounts         []LinkedAccount
}

// Normalize collapses the heterogeneous login result into a Profile.
// Field probing order matches the shapes the service has shipped: top-level
// first, then the nested user object, then linked accounts.
func (r *LoginResult) Normalize() Profile {
	p := Profile{
		AbstractAccountAddress: r.AbstractAccountAddress,
		LinkedAccounts:         r.LinkedAccounts,
	}

	p.Subject = firstNonEmpty(r.ID, r.DID, r.UserDID)
	if p.Subject == "" && r.User != nil {
		p.Subject = r.User.ID
	}

	p.Email = r.Email
	if p.Email == "" && r.User != nil {
		p.Email = r.User.Email
	}
	if p.Email == "" {
		if acc := r.linkedAccount("email"); acc != nil {
			p.Email = firstNonEmpty(acc.Address, acc.Email)
		}
	}
	if p.Email == "" {
		for _, acc := range r.LinkedAccounts {
			if acc.Email != "" {
				p.Email = acc.Email
				break
			}
		}
	}

	p.Name = firstNonEmpty(r.Name, r.GivenName, r.FamilyName)
	if p.Name == "" && r.User != nil {
		p.Name = firstNonEmpty(r.User.Name, r.User.GivenName)
	}
	if p.Name == "" && p.Email != "" {
		p.Name = displayNameFromEmail(p.Email)
	}
	if p.Name == "" {
		p.Name = "AIR User"
	}

	if acc := r.linkedAccount("wallet"); acc != nil {
		p.Wallet = acc.Address
	}
	if p.Wallet == "" && r.Wallet != nil {
		p.Wallet = r.Wallet.Address
	}
	if p.Wallet == "" {
		p.Wallet = r.AbstractAccountAddress
	}

	return p
}

func (r *LoginResult) linkedAccount(accType string) *LinkedAccount {
	for i := range r.LinkedAccounts {
		if r.LinkedAccounts[i].Type == accType {
			return &r.LinkedAccounts[i]
		}
	}
	return nil
}

// displayNameFromEmail turns "satoshi.n" or "satoshi_n" into "Satoshi N".
func displayNameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return ""
	}
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	for i, part := range parts {
		parts[i] = strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
	}
	return strings.Join(parts, " ")
}

// Outcome maps the raw verification status to a terminal outcome string,
// tolerating both the flat and nested response variants. Any status other
// than "verified" or "success" is failed.
func (v *VerifyResult) Outcome() string {
	status := v.Status
	if status == "" && v.Result != nil {
		status = v.Result.Status
	}
	switch strings.ToLower(status) {
	case "verified", "success":
		return "success"
	}
	return "failed"
}

// TransactionRef extracts the transaction/proof handle, probing every field
// name the service has used for it. Empty when the service returned none.
func (v *VerifyResult) TransactionRef() string {
	if v.TransactionHash != "" {
		return v.TransactionHash
	}
	if v.TxHash != "" {
		return v.TxHash
	}
	if v.Result != nil {
		return v.Result.TxHash
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
