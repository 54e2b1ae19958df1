// Package failure defines the typed error returned at the pipeline boundary.
// Its message text is what the user sees; Kind lets callers branch without
// inspecting that text.
package failure

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindInput             Kind = "input"
	KindUnsupportedFormat Kind = "unsupported_format"
	KindExtraction        Kind = "extraction"
	KindTranslation       Kind = "translation"
	KindSpeech            Kind = "speech"
)

const (
	translationPrefix = "Error During Translation: "
	speechPrefix      = "Error during text-to-speech conversion: "
)

// EmptyTextMessage is returned when neither typed text nor an upload yields content.
const EmptyTextMessage = "Please provide text to translate."

type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTranslation:
		return translationPrefix + e.detail()
	case KindSpeech:
		return speechPrefix + e.detail()
	default:
		return e.detail()
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) detail() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func Input(msg string) *Error {
	return &Error{Kind: KindInput, Detail: msg}
}

func UnsupportedFormat(err error) *Error {
	return &Error{Kind: KindUnsupportedFormat, Err: err}
}

func Extraction(err error) *Error {
	return wrap(KindExtraction, err)
}

func Translation(err error) *Error {
	return wrap(KindTranslation, err)
}

func Speech(err error) *Error {
	return wrap(KindSpeech, err)
}

// wrap returns err unchanged when it already carries the requested kind.
func wrap(kind Kind, err error) *Error {
	var fe *Error
	if errors.As(err, &fe) && fe.Kind == kind {
		return fe
	}
	return &Error{Kind: kind, Err: err}
}

// KindOf reports the Kind carried by err, or "" when err is not a *Error.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}
