package models

// FileMap maps relative, forward-slash file paths to their contents.
type FileMap map[string]string

// ProjectTree is a nested directory view of a FileMap. Directory entries hold
// a nested ProjectTree, file entries hold the literal string "file". The tree
// is derived state: it can always be rebuilt from the FileMap alone.
type ProjectTree map[string]interface{}

// TreeFileMarker is the leaf value used for file entries in a ProjectTree.
const TreeFileMarker = "file"

// ParsedProject is the structured form of one generation attempt. Once
// returned by the parser it is treated as read-only.
type ParsedProject struct {
	Files    FileMap     `json:"files"`
	Tree     ProjectTree `json:"project_structure"`
	MainFile string      `json:"main_file,omitempty"`
}

// ProjectConfig describes how a generated project should be installed and
// started. Port 0 means "no port": the project runs to completion instead of
// serving.
type ProjectConfig struct {
	ProjectType    string   `json:"project_type"`
	Language       string   `json:"language"`
	IsServer       bool     `json:"is_server"`
	InstallCommand string   `json:"install_command,omitempty"`
	StartCommand   string   `json:"start_command,omitempty"`
	Port           int      `json:"port,omitempty"`
	Dependencies   []string `json:"dependencies,omitempty"`
}
