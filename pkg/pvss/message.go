package pvss

import (
	"github.com/derekpierre/nucypher-ferveo/pkg/validator"
)

// Message is the broadcast unit of the DKG: a dealer's identity together with
// the transcript it produced. Sessions collect Messages from the transport
// and feed them to aggregation; the sender is what ties a transcript to a
// committee seat.
type Message struct {
	Sender     validator.Validator
	Transcript *Transcript
}
