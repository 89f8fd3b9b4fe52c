package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	dErrors "civreg/pkg/domain-errors"
)

// Action is a reviewer decision.
type Action string

const (
	ActionApprove        Action = "approve"
	ActionReject         Action = "reject"
	ActionSendToHospital Action = "send-to-hospital"
	ActionVerify         Action = "verify"
)

// MsgMotifRequired is shown when a rejection carries no reason.
const MsgMotifRequired = "Le motif du rejet est requis"

func mairieActionAllowed(a Action) bool {
	return a == ActionApprove || a == ActionReject || a == ActionSendToHospital
}

func hopitalActionAllowed(a Action) bool {
	return a == ActionVerify || a == ActionReject
}

func checkMotif(action Action, motif string) error {
	if action == ActionReject && strings.TrimSpace(motif) == "" {
		return dErrors.New(dErrors.CodeValidation, MsgMotifRequired)
	}
	return nil
}

// CheckMairie reports whether action may be applied to declaration id without
// changing anything.
func (b *Boards) CheckMairie(id string, action Action, motif string) error {
	_, err := b.mairieTarget(id, action, motif)
	return err
}

func (b *Boards) mairieTarget(id string, action Action, motif string) (*MairieDeclaration, error) {
	if !mairieActionAllowed(action) {
		return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown action %q", action))
	}
	var target *MairieDeclaration
	for i := range b.Mairie {
		if b.Mairie[i].ID == id {
			target = &b.Mairie[i]
			break
		}
	}
	if target == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "déclaration introuvable")
	}
	if !target.Statut.Open() {
		return nil, dErrors.New(dErrors.CodeConflict, fmt.Sprintf("la déclaration est déjà %s", strings.ToLower(string(target.Statut))))
	}
	if err := checkMotif(action, motif); err != nil {
		return nil, err
	}
	return target, nil
}

// ApplyMairie records a town hall decision and returns the updated entry.
func (b *Boards) ApplyMairie(id string, action Action, motif string) (MairieDeclaration, error) {
	target, err := b.mairieTarget(id, action, motif)
	if err != nil {
		return MairieDeclaration{}, err
	}
	switch action {
	case ActionApprove:
		target.Statut = MairieApprouvee
	case ActionReject:
		target.Statut = MairieRejetee
		target.Motif = strings.TrimSpace(motif)
	case ActionSendToHospital:
		target.Statut = MairieEnAttenteHopital
	}
	return *target, nil
}

// CheckHopital reports whether action may be applied to request id.
func (b *Boards) CheckHopital(id string, action Action, motif string) error {
	_, err := b.hopitalTarget(id, action, motif)
	return err
}

func (b *Boards) hopitalTarget(id string, action Action, motif string) (*VerificationRequest, error) {
	if !hopitalActionAllowed(action) {
		return nil, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown action %q", action))
	}
	var target *VerificationRequest
	for i := range b.Hopital {
		if b.Hopital[i].ID == id {
			target = &b.Hopital[i]
			break
		}
	}
	if target == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "demande introuvable")
	}
	if !target.Statut.Open() {
		return nil, dErrors.New(dErrors.CodeConflict, fmt.Sprintf("la demande est déjà %s", strings.ToLower(string(target.Statut))))
	}
	if err := checkMotif(action, motif); err != nil {
		return nil, err
	}
	return target, nil
}

// ApplyHopital records a hospital decision and returns the updated request.
func (b *Boards) ApplyHopital(id string, action Action, motif string) (VerificationRequest, error) {
	target, err := b.hopitalTarget(id, action, motif)
	if err != nil {
		return VerificationRequest{}, err
	}
	valid := action == ActionVerify
	target.CertificatValide = &valid
	if valid {
		target.Statut = HopitalVerifiee
	} else {
		target.Statut = HopitalRejetee
		target.Motif = strings.TrimSpace(motif)
	}
	return *target, nil
}

// AddDeclaration appends d to the parent board under the next free numeric id.
func (b *Boards) AddDeclaration(d Declaration) Declaration {
	next := 1
	for _, existing := range b.Parent.Declarations {
		if n, err := strconv.Atoi(existing.ID); err == nil && n >= next {
			next = n + 1
		}
	}
	d.ID = strconv.Itoa(next)
	b.Parent.Declarations = append(b.Parent.Declarations, d)
	return d
}

// FindDeclaration looks up a parent declaration.
func (b *Boards) FindDeclaration(id string) (Declaration, bool) {
	for _, d := range b.Parent.Declarations {
		if d.ID == id {
			return d, true
		}
	}
	return Declaration{}, false
}
