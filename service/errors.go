package service

import "errors"

var (
	// ErrValidation marks input failures. Wrapped instances name the
	// offending field so handlers can surface it verbatim.
	ErrValidation = errors.New("validation failed")

	// ErrNoText is returned when none of the uploaded files yielded
	// any extractable text.
	ErrNoText = errors.New("no text could be extracted from the uploaded files")

	// ErrNoAttachments is returned when a chat targets a judgment
	// without stored PDFs.
	ErrNoAttachments = errors.New("judgment has no attached PDFs")

	// ErrNoticeAnalysisMissing is returned when a draft or save is
	// attempted before any notice has been analyzed in the session.
	ErrNoticeAnalysisMissing = errors.New("no analyzed notice in this session")

	// ErrParse is returned when a model reply that must be structured
	// cannot be decoded.
	ErrParse = errors.New("could not parse model reply")

	// ErrLLM wraps transport failures from the model provider so
	// handlers can tell them apart from store failures.
	ErrLLM = errors.New("llm request failed")
)
