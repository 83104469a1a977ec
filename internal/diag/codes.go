package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0
	// notebook container
	NbInfo            Code = 1000
	NbInvalidNotebook Code = 1001
	NbUnreadable      Code = 1002
	NbNoCodeCells     Code = 1003

	// suppression tags
	TagInfo    Code = 2000
	TagInvalid Code = 2001

	// run lifecycle
	RunInfo          Code = 3000
	RunRetainedDir   Code = 3001
	RunCheckerStderr Code = 3002
	RunUnmappedLine  Code = 3003
)

var (
	codeDescription = map[Code]string{
		UnknownCode:       "Unknown error",
		NbInfo:            "Notebook information",
		NbInvalidNotebook: "Notebook could not be parsed",
		NbUnreadable:      "Notebook could not be read",
		NbNoCodeCells:     "Notebook has no checkable code cells",
		TagInfo:           "Suppression tag information",
		TagInvalid:        "Malformed suppression tag",
		RunInfo:           "Run information",
		RunRetainedDir:    "Parsed notebooks retained",
		RunCheckerStderr:  "Checker wrote to stderr",
		RunUnmappedLine:   "Checker output line could not be mapped",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("NB%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("TAG%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("RUN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
