package loader

// Document is the on-disk form of a tree file, shared by YAML and JSON:
//
//	roots: [scene]          # optional; defaults to every top-level item
//	items:
//	  - id: scene
//	    name: Scene
//	    kind: root
//	    children:
//	      - id: enemies
//	        name: Enemies
//	        children:
//	          - id: orc
//	            name: Orc
//	      - ref: orc          # alias of an item defined elsewhere
//
// Kind is inferred when omitted: items with a children key are folders,
// the rest leaves. "children: []" yields an expandable empty folder.
type Document struct {
	Roots []string `yaml:"roots,omitempty" json:"roots,omitempty"`
	Items []Node   `yaml:"items" json:"items"`
}

// Node is one item definition or, when Ref is set, a reference to an item
// defined elsewhere in the loaded files.
type Node struct {
	Ref string `yaml:"ref,omitempty" json:"ref,omitempty"`

	ID          string            `yaml:"id" json:"id"`
	Name        string            `yaml:"name,omitempty" json:"name,omitempty"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Thumbnail   string            `yaml:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	Kind        string            `yaml:"kind,omitempty" json:"kind,omitempty"`
	Height      int               `yaml:"height,omitempty" json:"height,omitempty"`
	Dataset     map[string]string `yaml:"dataset,omitempty" json:"dataset,omitempty"`
	Children    *[]Node           `yaml:"children,omitempty" json:"children,omitempty"`
}
