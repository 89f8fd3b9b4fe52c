package dashboard

// ParentStatus is the lifecycle of a declaration as the parent sees it.
type ParentStatus string

const (
	ParentEnCours   ParentStatus = "En cours"
	ParentEnAttente ParentStatus = "En attente"
	ParentValide    ParentStatus = "Validé"
	ParentRejete    ParentStatus = "Rejeté"
)

// ParentStatuses lists parent statuses in display order.
func ParentStatuses() []ParentStatus {
	return []ParentStatus{ParentEnCours, ParentEnAttente, ParentValide, ParentRejete}
}

// MairieStatus is the town hall's view of a declaration.
type MairieStatus string

const (
	MairieRecue            MairieStatus = "Reçue"
	MairieEnVerification   MairieStatus = "En vérification"
	MairieEnAttenteHopital MairieStatus = "En attente hôpital"
	MairieApprouvee        MairieStatus = "Approuvée"
	MairieRejetee          MairieStatus = "Rejetée"
)

// MairieStatuses lists town hall statuses in display order.
func MairieStatuses() []MairieStatus {
	return []MairieStatus{MairieRecue, MairieEnVerification, MairieEnAttenteHopital, MairieApprouvee, MairieRejetee}
}

// Open reports whether a reviewer may still act on the declaration.
func (s MairieStatus) Open() bool {
	return s == MairieRecue || s == MairieEnVerification
}

// HopitalStatus is the state of a certificate verification request.
type HopitalStatus string

const (
	HopitalEnAttente HopitalStatus = "En attente"
	HopitalVerifiee  HopitalStatus = "Vérifiée"
	HopitalRejetee   HopitalStatus = "Rejetée"
)

// HopitalStatuses lists hospital statuses in display order.
func HopitalStatuses() []HopitalStatus {
	return []HopitalStatus{HopitalEnAttente, HopitalVerifiee, HopitalRejetee}
}

// Open reports whether the request still awaits a decision.
func (s HopitalStatus) Open() bool {
	return s == HopitalEnAttente
}

// ParentInfo identifies the signed-in parent.
type ParentInfo struct {
	Nom       string `json:"nom" yaml:"nom"`
	Prenom    string `json:"prenom" yaml:"prenom"`
	Email     string `json:"email" yaml:"email"`
	Telephone string `json:"telephone" yaml:"telephone"`
}

// Declaration is one entry on the parent dashboard.
type Declaration struct {
	ID              string       `json:"id" yaml:"id"`
	EnfantNom       string       `json:"enfantNom" yaml:"enfantNom"`
	DateNaissance   string       `json:"dateNaissance" yaml:"dateNaissance"`
	Pere            string       `json:"pere" yaml:"pere"`
	Mere            string       `json:"mere" yaml:"mere"`
	DateDeclaration string       `json:"dateDeclaration" yaml:"dateDeclaration"`
	Statut          ParentStatus `json:"statut" yaml:"statut"`
	Reference       string       `json:"reference,omitempty" yaml:"reference,omitempty"`
}

// Downloadable reports whether an acte can be downloaded.
func (d Declaration) Downloadable() bool {
	return d.Statut == ParentValide
}

// Documents flags which attachments a declaration carries.
type Documents struct {
	Certificat   bool `json:"certificat" yaml:"certificat"`
	CartePere    bool `json:"cartePere" yaml:"cartePere"`
	CarteMere    bool `json:"carteMere" yaml:"carteMere"`
	Justificatif bool `json:"justificatif" yaml:"justificatif"`
}

// MairieDeclaration is a declaration under town hall review.
type MairieDeclaration struct {
	ID              string       `json:"id" yaml:"id"`
	EnfantNom       string       `json:"enfantNom" yaml:"enfantNom"`
	DateNaissance   string       `json:"dateNaissance" yaml:"dateNaissance"`
	Pere            string       `json:"pere" yaml:"pere"`
	Mere            string       `json:"mere" yaml:"mere"`
	DateDeclaration string       `json:"dateDeclaration" yaml:"dateDeclaration"`
	Statut          MairieStatus `json:"statut" yaml:"statut"`
	Completude      int          `json:"completude" yaml:"completude"`
	Documents       Documents    `json:"documents" yaml:"documents"`
	Motif           string       `json:"motif,omitempty" yaml:"motif,omitempty"`
}

// VerificationRequest asks the hospital to confirm a birth certificate.
type VerificationRequest struct {
	ID               string        `json:"id" yaml:"id"`
	EnfantNom        string        `json:"enfantNom" yaml:"enfantNom"`
	DateNaissance    string        `json:"dateNaissance" yaml:"dateNaissance"`
	Pere             string        `json:"pere" yaml:"pere"`
	Mere             string        `json:"mere" yaml:"mere"`
	DateRecue        string        `json:"dateRecue" yaml:"dateRecue"`
	Statut           HopitalStatus `json:"statut" yaml:"statut"`
	CertificatValide *bool         `json:"certificatValide,omitempty" yaml:"certificatValide,omitempty"`
	Motif            string        `json:"motif,omitempty" yaml:"motif,omitempty"`
}

// ParentBoard is the parent's dashboard data.
type ParentBoard struct {
	Info         ParentInfo    `json:"info" yaml:"info"`
	Declarations []Declaration `json:"declarations" yaml:"declarations"`
}

// Boards holds every role's data. Each session owns a private copy.
type Boards struct {
	Parent  ParentBoard           `json:"parent" yaml:"parent"`
	Mairie  []MairieDeclaration   `json:"mairie" yaml:"mairie"`
	Hopital []VerificationRequest `json:"hopital" yaml:"hopital"`
}

// Clone returns a deep copy.
func (b Boards) Clone() Boards {
	out := Boards{
		Parent: ParentBoard{
			Info:         b.Parent.Info,
			Declarations: append([]Declaration(nil), b.Parent.Declarations...),
		},
		Mairie:  append([]MairieDeclaration(nil), b.Mairie...),
		Hopital: make([]VerificationRequest, len(b.Hopital)),
	}
	for i, r := range b.Hopital {
		if r.CertificatValide != nil {
			v := *r.CertificatValide
			r.CertificatValide = &v
		}
		out.Hopital[i] = r
	}
	return out
}
