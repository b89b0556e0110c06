package setup

import "fmt"

// State is one stage of the initialization workflow. States run strictly in
// declaration order and never transition backwards.
type State int

const (
	StateNone State = iota
	StatePrerequisiteCheck
	StateCollectMetadata
	StateCollectDatabaseParams
	StateConfirmSummary
	StatePatchManifests
	StateWriteVersionMarker
	StatePatchTitleString
	StateWriteEnvironmentFiles
	StateInstallDependencies
	StateGenerateClientCode
	StateInitializeVersionControl
	StateDone
)

var stateNames = map[State]string{
	StateNone:                     "None",
	StatePrerequisiteCheck:        "PrerequisiteCheck",
	StateCollectMetadata:          "CollectMetadata",
	StateCollectDatabaseParams:    "CollectDatabaseParams",
	StateConfirmSummary:           "ConfirmSummary",
	StatePatchManifests:           "PatchManifests",
	StateWriteVersionMarker:       "WriteVersionMarker",
	StatePatchTitleString:         "PatchTitleString",
	StateWriteEnvironmentFiles:    "WriteEnvironmentFiles",
	StateInstallDependencies:      "InstallDependencies",
	StateGenerateClientCode:       "GenerateClientCode",
	StateInitializeVersionControl: "InitializeVersionControl",
	StateDone:                     "Done",
}

var stateTitles = map[State]string{
	StatePrerequisiteCheck:        "Checking prerequisites",
	StateCollectMetadata:          "Project details",
	StateCollectDatabaseParams:    "Database connection",
	StateConfirmSummary:           "Summary",
	StatePatchManifests:           "Updating package manifests",
	StateWriteVersionMarker:       "Writing version file",
	StatePatchTitleString:         "Setting page title",
	StateWriteEnvironmentFiles:    "Writing environment files",
	StateInstallDependencies:      "Installing dependencies",
	StateGenerateClientCode:       "Generating database client",
	StateInitializeVersionControl: "Initializing git repository",
	StateDone:                     "Done",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Title is the operator-facing heading for the state.
func (s State) Title() string {
	if title, ok := stateTitles[s]; ok {
		return title
	}
	return s.String()
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool { return s == StateDone }
