package diag

// Location points at a file and an optional 1-based line.
type Location struct {
	Path string
	Line uint32
}

type Note struct {
	At  Location
	Msg string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  Location
	Notes    []Note
}

func New(sev Severity, code Code, primary Location, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewWarning(code Code, primary Location, msg string) Diagnostic {
	return New(SevWarning, code, primary, msg)
}

func (d Diagnostic) WithNote(at Location, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{At: at, Msg: msg})
	return d
}
