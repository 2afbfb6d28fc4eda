package side_web

type DashboardPageVM struct {
	Servers     []OptionVM
	Layouts     []OptionVM
	PollSeconds int
	Map         MapVM
	Trains      RosterTableVM
	Detail      DetailVM
}

type OptionVM struct {
	Value    string
	Label    string
	Selected bool
}

type MapVM struct {
	ViewBox  string
	Elements []ElementVM
	Skipped  int
	Status   LifecycleVM
}

type ElementVM struct {
	Kind string
	ID   string

	X1, Y1, X2, Y2 float64
	X, Y, R        float64
	Width, Height  float64
	Points         string

	Text        string
	FontSize    float64
	Fill        string
	Stroke      string
	StrokeWidth float64
}

type RosterTableVM struct {
	Key       string
	UpdatedAt string
	Status    LifecycleVM
	Rows      []TrainRowVM
}

type TrainRowVM struct {
	TrainNo    string
	Name       string
	Type       string
	Speed      string
	Delay      string
	Route      string
	Signal     string
	Selected   bool
	Selectable bool
	SelectURL  string
}

type DetailVM struct {
	Visible  bool
	TrainNo  string
	Name     string
	Type     string
	LocoType string
	Length   string
	Weight   string
	Speed    string
	Delay    string
	Route    string
	Signal   string
	Stops    []StopVM
}

type StopVM struct {
	Station   string
	Arrival   string
	Departure string
	Stop      string
	Delay     string
}

type LifecycleVM struct {
	Name      string
	Phase     string
	LastError string
	UpdatedAt string
	Stale     bool
}
