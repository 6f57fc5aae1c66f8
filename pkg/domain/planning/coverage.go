package planning

import "strings"

// Coverage advisors run over a finished decomposition and produce
// warnings only. They never block planning and never alter the plan.

var schemaLayerMarkers = []string{"migration", "schema", ".sql", "prisma"}
var handlerLayerMarkers = []string{"/api/", "handler", "route", "controller", "endpoint"}

// CheckDataFlowCoverage warns when schema- or migration-layer files
// are being changed without any task touching the API-handler layer.
// A schema change that never surfaces through a handler is usually a
// sign the decomposition dropped half the data flow.
func CheckDataFlowCoverage(d *Decomposition) []string {
	touchesSchema := false
	touchesHandler := false

	for _, t := range d.Tasks {
		for _, f := range t.Files {
			path := strings.ToLower(f)
			if matchesAny(path, schemaLayerMarkers) {
				touchesSchema = true
			}
			if matchesAny(path, handlerLayerMarkers) {
				touchesHandler = true
			}
		}
	}

	if touchesSchema && !touchesHandler {
		return []string{"schema or migration files are modified but no task touches the API handler layer; the data flow may be incomplete"}
	}
	return nil
}

// CheckTestCoverage warns when the decomposition contains no task of
// type test.
func CheckTestCoverage(d *Decomposition) []string {
	for _, t := range d.Tasks {
		if t.Type == TypeTest {
			return nil
		}
	}
	return []string{"no test task in the decomposition; consider adding at least one"}
}

func matchesAny(path string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(path, m) {
			return true
		}
	}
	return false
}
