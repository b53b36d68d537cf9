package linage

// EndPoint identifies an external data resource (i.e. a dataset) at the boundary of a lineage graph
type EndPoint struct {
	Namespace string `json:"namespace" yaml:"namespace"` // Namespace owning the resource
	Name      string `json:"name" yaml:"name"`           // Resource name
}

// NewEndPoint creates an endpoint reference
func NewEndPoint(namespace, name string) *EndPoint {
	return &EndPoint{Namespace: namespace, Name: name}
}

func (e EndPoint) String() string {
	return e.Namespace + ":" + e.Name
}

// EndPointField addresses a single field of an endpoint; summaries are keyed by it
type EndPointField struct {
	EndPoint EndPoint `json:"endPoint" yaml:"endPoint"`
	Field    string   `json:"field" yaml:"field"`
}

// NewEndPointField creates an endpoint field
func NewEndPointField(endPoint EndPoint, field string) EndPointField {
	return EndPointField{EndPoint: endPoint, Field: field}
}

func (f EndPointField) String() string {
	return f.EndPoint.String() + "." + f.Field
}

// Less orders endpoint fields by namespace, endpoint name and field
func (f EndPointField) Less(o EndPointField) bool {
	if f.EndPoint.Namespace != o.EndPoint.Namespace {
		return f.EndPoint.Namespace < o.EndPoint.Namespace
	}
	if f.EndPoint.Name != o.EndPoint.Name {
		return f.EndPoint.Name < o.EndPoint.Name
	}
	return f.Field < o.Field
}

// InputField declares that a field consumed by an operation was produced by the origin operation.
// Origin is a name reference resolved against the operations of a snapshot.
type InputField struct {
	Origin string `json:"origin" yaml:"origin"`
	Name   string `json:"name" yaml:"name"`
}

// NewInputField creates an input field
func NewInputField(origin, name string) InputField {
	return InputField{Origin: origin, Name: name}
}

func (f InputField) String() string {
	return f.Origin + "." + f.Name
}
