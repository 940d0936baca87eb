// Package projects opens build project files, exposes their inclusion entries, removes selected
// entries, and saves the result atomically.
//
// MSBuild projects are edited in place at the byte level so formatting outside removed items is
// preserved. YAML manifests are edited through the yaml.v3 node tree so comments survive.
// CandidateCollector expands entries into the existing files they reference.
package projects
