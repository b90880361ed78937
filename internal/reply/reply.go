// Package reply is the tagged result every handler returns. Text is always
// the display string; Kind tells callers whether it reports a failure without
// having to sniff the text.
package reply

// Kind classifies a failed lookup. Empty means success.
type Kind string

const (
	// KindProvider: the provider answered but reported an error in its payload.
	KindProvider Kind = "provider"
	// KindTransport: the request or the decoding of the response failed.
	KindTransport Kind = "transport"
	// KindNotFound: the lookup matched nothing or was ambiguous.
	KindNotFound Kind = "not_found"
	// KindInput: the utterance itself could not be used.
	KindInput Kind = "input"
)

type Result struct {
	// Text is always the string shown to the user, success or not.
	Text   string
	Kind   Kind
	Detail string
}

func Success(text string) Result {
	return Result{Text: text}
}

func Failure(kind Kind, detail, text string) Result {
	return Result{Text: text, Kind: kind, Detail: detail}
}

func (r Result) Failed() bool { return r.Kind != "" }

// Outcome is "ok" or the failure kind; used as a metrics and journal label.
func (r Result) Outcome() string {
	if r.Failed() {
		return string(r.Kind)
	}
	return "ok"
}
