package siwe

import (
	"fmt"
	"strings"
	"time"

	"github.com/msafer/waitlist/internal/domain"
)

// Message is the canonical sign-in payload the client signs. The rendered
// form follows the EIP-4361 shape for wallet compatibility.
type Message struct {
	Domain         string
	Address        string
	Statement      string
	Nonce          string
	IssuedAt       time.Time
	ExpirationTime time.Time
}

// DefaultStatement is bound into sign-in messages issued by this service
const DefaultStatement = "Sign in to join the waitlist."

// Build renders the canonical message text
func (m *Message) Build() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s wants you to sign in with your Ethereum account:\n", m.Domain)
	fmt.Fprintf(&b, "%s\n\n", m.Address)
	fmt.Fprintf(&b, "%s\n\n", m.Statement)
	fmt.Fprintf(&b, "Nonce: %s\n", m.Nonce)
	fmt.Fprintf(&b, "Issued At: %s\n", m.IssuedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Expiration Time: %s", m.ExpirationTime.UTC().Format(time.RFC3339))
	return b.String()
}

// Parse reconstructs a Message from its rendered text
func Parse(text string) (*Message, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(lines) < 7 {
		return nil, fmt.Errorf("%w: malformed sign-in message", domain.ErrInvalidInput)
	}

	const header = " wants you to sign in with your Ethereum account:"
	if !strings.HasSuffix(lines[0], header) {
		return nil, fmt.Errorf("%w: missing sign-in header", domain.ErrInvalidInput)
	}

	m := &Message{
		Domain:  strings.TrimSuffix(lines[0], header),
		Address: strings.TrimSpace(lines[1]),
	}

	for _, line := range lines[2:] {
		switch {
		case strings.HasPrefix(line, "Nonce: "):
			m.Nonce = strings.TrimPrefix(line, "Nonce: ")
		case strings.HasPrefix(line, "Issued At: "):
			t, err := time.Parse(time.RFC3339, strings.TrimPrefix(line, "Issued At: "))
			if err != nil {
				return nil, fmt.Errorf("%w: bad issued-at timestamp", domain.ErrInvalidInput)
			}
			m.IssuedAt = t
		case strings.HasPrefix(line, "Expiration Time: "):
			t, err := time.Parse(time.RFC3339, strings.TrimPrefix(line, "Expiration Time: "))
			if err != nil {
				return nil, fmt.Errorf("%w: bad expiration timestamp", domain.ErrInvalidInput)
			}
			m.ExpirationTime = t
		case line != "" && m.Statement == "":
			m.Statement = line
		}
	}

	if m.Address == "" || m.Nonce == "" {
		return nil, fmt.Errorf("%w: incomplete sign-in message", domain.ErrInvalidInput)
	}
	return m, nil
}

// Validate checks the message time window against now
func (m *Message) Validate(now time.Time) error {
	if !m.ExpirationTime.IsZero() && now.After(m.ExpirationTime) {
		return domain.ErrMessageExpired
	}
	return nil
}

// LensChallenge builds the canonical off-chain text a Lens profile owner
// signs to prove ownership. The server reconstructs this from the stored
// link attempt, so the text must be fully determined by its arguments.
func LensChallenge(profileID, ownerAddress, nonce string) string {
	return fmt.Sprintf(
		"Verify ownership of Lens profile %s for wallet %s.\nNonce: %s",
		profileID, ownerAddress, nonce,
	)
}
