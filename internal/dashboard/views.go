package dashboard

// StatusCount is one tile of a dashboard summary.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// ParentView is the parent dashboard.
type ParentView struct {
	Info         ParentInfo    `json:"info"`
	Declarations []Declaration `json:"declarations"`
	Counts       []StatusCount `json:"counts"`
	Focus        *Declaration  `json:"focus,omitempty"`
}

// MairieView is the town hall dashboard.
type MairieView struct {
	Declarations []MairieDeclaration `json:"declarations"`
	Counts       []StatusCount       `json:"counts"`
}

// HopitalView is the hospital dashboard.
type HopitalView struct {
	Requests []VerificationRequest `json:"requests"`
	Counts   []StatusCount         `json:"counts"`
}

func count[S ~string, T any](statuses []S, items []T, statusOf func(T) S) []StatusCount {
	out := make([]StatusCount, len(statuses))
	for i, s := range statuses {
		out[i].Status = string(s)
	}
	for _, item := range items {
		st := statusOf(item)
		for i, s := range statuses {
			if s == st {
				out[i].Count++
				break
			}
		}
	}
	return out
}

// ParentView renders the parent board.
func (b Boards) ParentView() ParentView {
	decls := append([]Declaration{}, b.Parent.Declarations...)
	return ParentView{
		Info:         b.Parent.Info,
		Declarations: decls,
		Counts:       count(ParentStatuses(), decls, func(d Declaration) ParentStatus { return d.Statut }),
	}
}

// MairieView renders the town hall board.
func (b Boards) MairieView() MairieView {
	decls := append([]MairieDeclaration{}, b.Mairie...)
	return MairieView{
		Declarations: decls,
		Counts:       count(MairieStatuses(), decls, func(d MairieDeclaration) MairieStatus { return d.Statut }),
	}
}

// HopitalView renders the hospital board.
func (b Boards) HopitalView() HopitalView {
	reqs := b.Clone().Hopital
	if reqs == nil {
		reqs = []VerificationRequest{}
	}
	return HopitalView{
		Requests: reqs,
		Counts:   count(HopitalStatuses(), reqs, func(r VerificationRequest) HopitalStatus { return r.Statut }),
	}
}
