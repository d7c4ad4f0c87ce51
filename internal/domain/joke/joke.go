// internal/domain/joke/joke.go
package joke

import (
	"context"
	"strings"
)

// Kind is the discriminator returned by the joke source.
type Kind string

const (
	KindSingle  Kind = "single"
	KindTwoPart Kind = "twopart"
)

// Separator joins the setup and delivery of a two-part joke.
const Separator = " ... "

// Placeholder is sent when the source returned a joke with no usable text.
const Placeholder = "Pas de blague disponible 😅"

// Joke is a single payload fetched from the joke source. It is never persisted as-is;
// only the formatted text reaches the delivery targets.
type Joke struct {
	ID       int
	Category string
	Kind     Kind
	Text     string // KindSingle only
	Setup    string // KindTwoPart only
	Delivery string // KindTwoPart only

	// Fallback is true when the joke was synthesized from a fetch failure.
	Fallback bool
}

// Format renders the joke as the message text delivered to every target.
// It is deterministic: the same joke always yields the same text.
func (j Joke) Format() string {
	switch j.Kind {
	case KindTwoPart:
		setup := strings.TrimSpace(j.Setup)
		delivery := strings.TrimSpace(j.Delivery)
		if setup == "" && delivery == "" {
			return Placeholder
		}
		return setup + Separator + delivery
	default:
		if strings.TrimSpace(j.Text) == "" {
			return Placeholder
		}
		return j.Text
	}
}

// FromFailure wraps a fetch error into a joke whose text describes the failure.
func FromFailure(err error) Joke {
	return Joke{
		Kind:     KindSingle,
		Text:     "Oups, impossible de récupérer une blague : " + err.Error(),
		Fallback: true,
	}
}

// Source fetches one joke per call.
type Source interface {
	Fetch(ctx context.Context) (Joke, error)
}
