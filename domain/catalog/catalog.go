// Package catalog holds the built-in snippet and template library. The
// tables are static configuration assembled at startup; nothing here is
// mutable document state.
package catalog

// Snippet is one insertable example with a short description
type Snippet struct {
	Label       string `json:"label"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// SubCategory groups snippets under a heading inside a category
type SubCategory struct {
	Name     string    `json:"name"`
	Snippets []Snippet `json:"snippets"`
}

// Category is one palette section of the snippet library
type Category struct {
	Name          string        `json:"name"`
	Icon          string        `json:"icon"`
	Color         string        `json:"color"`
	Subcategories []SubCategory `json:"subcategories"`
}

var categories = []Category{
	{
		Name:  "Sequence",
		Icon:  "arrow-right-left",
		Color: "text-blue-500",
		Subcategories: []SubCategory{
			{
				Name: "BASICS",
				Snippets: []Snippet{
					{
						Label:       "Simple Message",
						Code:        "@startuml\nAlice -> Bob: Hello\n@enduml",
						Description: "-> for sync call",
					},
					{
						Label:       "Return Message",
						Code:        "@startuml\nAlice -> Bob: Request\nBob --> Alice: Response\n@enduml",
						Description: "--> for response",
					},
					{
						Label:       "Self-Message",
						Code:        "@startuml\nAlice -> Alice: Process Data\n@enduml",
						Description: "Recursive call",
					},
				},
			},
			{
				Name: "PARTICIPANTS",
				Snippets: []Snippet{
					{
						Label:       "Types",
						Code:        "@startuml\nactor User\nboundary Web\ncontrol Logic\ndatabase DB\nentity Data\nUser -> Web: Login\n@enduml",
						Description: "Different visual shapes",
					},
				},
			},
			{
				Name: "CONTROL FLOW",
				Snippets: []Snippet{
					{
						Label:       "Alt/Else (Choices)",
						Code:        "@startuml\nAlice -> Bob: Action\nalt Success\n  Bob -> Alice: OK\nelse Error\n  Bob -> Alice: Fail\nend\n@enduml",
						Description: "Conditional branching",
					},
					{
						Label:       "Loop",
						Code:        "@startuml\nloop 10 times\n  Alice -> Bob: Poll\nend\n@enduml",
						Description: "Iteration",
					},
				},
			},
		},
	},
	{
		Name:  "Use Case",
		Icon:  "user",
		Color: "text-yellow-500",
		Subcategories: []SubCategory{
			{
				Name: "BASICS",
				Snippets: []Snippet{
					{
						Label:       "Simple Use Case",
						Code:        "@startuml\nleft to right direction\nactor User\nusecase \"Login\" as UC1\nUser --> UC1\n@enduml",
						Description: "Actor and usecase",
					},
				},
			},
			{
				Name: "RELATIONSHIPS",
				Snippets: []Snippet{
					{
						Label:       "Include/Extend",
						Code:        "@startuml\nusecase \"Checkout\" as UC1\nusecase \"Verify Card\" as UC2\nusecase \"Help\" as UC3\nUC1 ..> UC2 : <<include>>\nUC3 ..> UC1 : <<extend>>\n@enduml",
						Description: "Advanced relations",
					},
				},
			},
		},
	},
	{
		Name:  "Class",
		Icon:  "box",
		Color: "text-orange-500",
		Subcategories: []SubCategory{
			{
				Name: "BASICS",
				Snippets: []Snippet{
					{
						Label:       "Simple Class",
						Code:        "@startuml\nclass User {\n  id: int\n  name: string\n}\n@enduml",
						Description: "Definition with fields",
					},
					{
						Label:       "Methods",
						Code:        "@startuml\nclass Calculator {\n  + add(a:int, b:int): int\n  - reset(): void\n}\n@enduml",
						Description: "Functions with parameters",
					},
				},
			},
			{
				Name: "RELATIONSHIPS",
				Snippets: []Snippet{
					{
						Label:       "Inheritance",
						Code:        "@startuml\nAnimal <|-- Dog\n@enduml",
						Description: "IS-A (Generalization)",
					},
					{
						Label:       "Composition",
						Code:        "@startuml\nCar *-- Engine\n@enduml",
						Description: "Whole-part (Strong)",
					},
				},
			},
		},
	},
	{
		Name:  "Activity",
		Icon:  "git-fork",
		Color: "text-emerald-500",
		Subcategories: []SubCategory{
			{
				Name: "BASICS",
				Snippets: []Snippet{
					{
						Label:       "Flow",
						Code:        "@startuml\nstart\n:Step 1;\n:Step 2;\nstop\n@enduml",
						Description: "Simple linear flow",
					},
					{
						Label:       "If/Then/Else",
						Code:        "@startuml\nstart\nif (Test) then (yes)\n  :A;\nelse (no)\n  :B;\nendif\nstop\n@enduml",
						Description: "Branching",
					},
				},
			},
		},
	},
	{
		Name:  "State",
		Icon:  "circle-dot",
		Color: "text-purple-500",
		Subcategories: []SubCategory{
			{
				Name: "BASICS",
				Snippets: []Snippet{
					{
						Label:       "Transitions",
						Code:        "@startuml\n[*] --> Idle\nIdle -> Active : Start\nActive -> [*] : Stop\n@enduml",
						Description: "Start/Stop flow",
					},
				},
			},
		},
	},
	{
		Name:  "Component",
		Icon:  "package",
		Color: "text-yellow-600",
		Subcategories: []SubCategory{
			{
				Name: "BASICS",
				Snippets: []Snippet{
					{
						Label:       "Components",
						Code:        "@startuml\n[First Component]\n[Second Component] as Comp2\n[First Component] ..> Comp2 : use\n@enduml",
						Description: "Basic components",
					},
				},
			},
		},
	},
	{
		Name:  "JSON / YAML",
		Icon:  "code-2",
		Color: "text-red-400",
		Subcategories: []SubCategory{
			{
				Name: "DATA",
				Snippets: []Snippet{
					{
						Label:       "JSON View",
						Code:        "@startjson\n{\n  \"name\": \"Codoc\",\n  \"tags\": [\"Web\", \"Diagrams\"],\n  \"active\": true\n}\n@endjson",
						Description: "Visualize JSON",
					},
					{
						Label:       "YAML View",
						Code:        "@startyaml\nname: PlantUML\nversion: 1.0\nfeatures:\n  - simple\n  - text-based\n@endyaml",
						Description: "Visualize YAML",
					},
				},
			},
		},
	},
	{
		Name:  "MindMap",
		Icon:  "brain-circuit",
		Color: "text-pink-500",
		Subcategories: []SubCategory{
			{
				Name: "HIERARCHY",
				Snippets: []Snippet{
					{
						Label:       "Ideas",
						Code:        "@startmindmap\n* Root\n** Idea 1\n*** Sub Idea 1\n** Idea 2\n@endmindmap",
						Description: "Brainstorming",
					},
				},
			},
		},
	},
}

// templates maps a diagram type to a complete starter document
var templates = map[string]string{
	"Sequence":  "@startuml\nactor User\nparticipant \"First Class\" as A\nparticipant \"Second Class\" as B\n\nUser -> A: DoWork\nactivate A\n\nA -> B: Create Request\nactivate B\n\nB --> A: Request Created\ndeactivate B\n\nA --> User: Done\ndeactivate A\n@enduml",
	"Use Case":  "@startuml\nleft to right direction\nactor \"Food Critic\" as fc\nrectangle Restaurant {\n  usecase \"Eat Food\" as UC1\n  usecase \"Pay for Food\" as UC2\n  usecase \"Drink\" as UC3\n}\nfc --> UC1\nfc --> UC2\nfc --> UC3\n@enduml",
	"Class":     "@startuml\nclass Car {\n  - engine: Engine\n  + start(): void\n  + stop(): void\n}\n\nclass Engine {\n  - power: int\n  + start(): void\n}\n\nCar *-- Engine\n@enduml",
	"Activity":  "@startuml\nstart\n:Hello world;\n:This is defined on\nmultiple lines;\nstop\n@enduml",
	"Component": "@startuml\npackage \"Some Group\" {\n  HTTP - [First Component]\n  [Another Component]\n}\n\nnode \"Other Groups\" {\n  FTP - [Second Component]\n  [First Component] --> FTP\n}\n@enduml",
	"State":     "@startuml\n[*] --> State1\nState1 --> [*]\nState1 : this is a string\nState1 : this is another string\n\nState1 -> State2\nState2 --> [*]\n@enduml",
	"Object":    "@startuml\nobject Object01\nobject Object02\nobject Object03\n\nObject01 <|-- Object02\nObject03 *-- Object01\n@enduml",
}

// Categories returns the snippet library
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Templates returns the named starter templates
func Templates() map[string]string {
	out := make(map[string]string, len(templates))
	for name, code := range templates {
		out[name] = code
	}
	return out
}

// Template looks up one starter template by name
func Template(name string) (string, bool) {
	code, ok := templates[name]
	return code, ok
}
