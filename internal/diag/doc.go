// Package diag defines the warnings nbcheck itself produces while turning
// notebooks into checkable files.
//
// These are distinct from the findings reported by the external checker:
// a diag.Diagnostic describes a problem with the input (a notebook that is
// not valid JSON, a suppression tag with a typo) that never aborts a run.
// Every stage receives a Reporter; the driver hands each notebook its own
// Bag and merges them in input order once the parallel work is done, so the
// printed warnings are deterministic.
//
// Codes are grouped by range: NB1xxx for the notebook container, TAG2xxx
// for suppression tags and RUN3xxx for the run lifecycle.
package diag
