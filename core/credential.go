package core

// Credential is the wallet identity used for automated signing. It is
// supplied once at configuration time and held in memory only.
type Credential struct {
	// Address is the 20-byte hex wallet address. May be left empty, in which
	// case it is derived from the private key on first use; when set, it must
	// match the key-derived address.
	Address string

	// PrivateKey is the 32-byte hex signing key, with or without 0x prefix.
	PrivateKey string
}

// Configured reports whether a signing key is available.
func (c Credential) Configured() bool { return c.PrivateKey != "" }

// String prints the address only. The private key never appears in logs or
// error messages.
func (c Credential) String() string { return c.Address }
