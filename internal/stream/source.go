package stream

import "context"

// Format is one encoded rendition offered by an AudioSource.
type Format struct {
	// ID identifies the rendition across negotiations (itag, format_id).
	ID string

	MimeType string
	Codec    string

	// Bitrate is the declared bitrate in bits per second, 0 when unknown.
	Bitrate int

	// AudioOnly is true for renditions without a video track.
	AudioOnly bool

	// Quality is the tier declared by the source, empty when not declared.
	Quality Quality

	// URL is a per-format endpoint. Empty means Negotiation.Endpoint is used.
	URL string

	ApproxDurationMs int64
}

// ReloadContext is the opaque continuation value carried by a reload request.
// It is handed back to the source unchanged when renegotiating.
type ReloadContext struct {
	Reason  string
	Payload []byte
}

// Negotiation is the result of the handshake with an AudioSource.
type Negotiation struct {
	Formats []Format

	// Endpoint is the shared streaming endpoint.
	Endpoint string

	// Config is the opaque client configuration required by the endpoint.
	Config []byte

	// Token is the proof-of-origin token. It is reused on renegotiation.
	Token string
}

// Lookup returns the format with the given ID.
func (n *Negotiation) Lookup(id string) (Format, bool) {
	for _, f := range n.Formats {
		if f.ID == id {
			return f, true
		}
	}
	return Format{}, false
}

// EndpointFor returns where f is streamed from under this negotiation:
// the URL of the matching format if it has one, otherwise Endpoint.
func (n *Negotiation) EndpointFor(f Format) string {
	if match, ok := n.Lookup(f.ID); ok && match.URL != "" {
		return match.URL
	}
	return n.Endpoint
}

// usable reports whether f can be streamed under n.
func (n *Negotiation) usable(f Format) bool {
	return n.EndpointFor(f) != "" && len(n.Config) > 0
}

// NegotiateRequest asks an AudioSource for streaming parameters.
type NegotiateRequest struct {
	VideoID string
	Token   string

	// Reload is set when renegotiating after a reload request.
	Reload *ReloadContext
}

// MessageKind discriminates Message.
type MessageKind int

const (
	MessageChunk MessageKind = iota
	MessageReload
	MessageEnd
)

func (k MessageKind) String() string {
	switch k {
	case MessageChunk:
		return "chunk"
	case MessageReload:
		return "reload"
	case MessageEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Message is one event received from a Transfer.
type Message struct {
	Kind MessageKind

	// Data is set for MessageChunk. The Transfer must not reuse it.
	Data []byte

	// Reload is set for MessageReload.
	Reload *ReloadContext
}

// Chunk returns a data message.
func Chunk(data []byte) Message { return Message{Kind: MessageChunk, Data: data} }

// Reload returns a reload request.
func Reload(rc ReloadContext) Message { return Message{Kind: MessageReload, Reload: &rc} }

// End returns the end-of-data message.
func End() Message { return Message{Kind: MessageEnd} }

// AudioSource negotiates and opens adaptive audio transfers.
//
// Implementations keep every protocol and token detail to themselves; the
// session only sees formats, an endpoint, an opaque config and messages.
type AudioSource interface {
	Negotiate(ctx context.Context, req NegotiateRequest) (*Negotiation, error)
	Open(ctx context.Context, n *Negotiation, f Format) (Transfer, error)
}

// Transfer is an in-progress byte transfer.
//
// Recv blocks until the next message. After a reload message the driver
// renegotiates and calls Redirect; the Transfer then continues from the
// first byte it has not delivered yet.
type Transfer interface {
	Recv(ctx context.Context) (Message, error)
	Redirect(n *Negotiation) error
	Close() error
}
