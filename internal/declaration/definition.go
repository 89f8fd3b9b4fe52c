// Package declaration defines the six-step birth declaration wizard and turns
// a completed form into a dashboard entry.
package declaration

import (
	"civreg/internal/wizard"
)

// Name identifies the wizard in routes and sessions.
const Name = "birth-declaration"

// Steps of the declaration, in order.
const (
	StepPere         wizard.Step = "pere"
	StepMere         wizard.Step = "mere"
	StepEnfant       wizard.Step = "enfant"
	StepAdresse      wizard.Step = "adresse"
	StepDocuments    wizard.Step = "documents"
	StepConfirmation wizard.Step = "confirmation"
)

// Sections mirror the steps that collect data.
const (
	SectionPere      = "pere"
	SectionMere      = "mere"
	SectionEnfant    = "enfant"
	SectionAdresse   = "adresse"
	SectionDocuments = "documents"
)

// Sex options for the child.
const (
	SexeMasculin = "M"
	SexeFeminin  = "F"
)

const (
	msgNom                  = "Le nom est requis"
	msgPrenom               = "Le prénom est requis"
	msgNumeroIdentification = "Le numéro d'identification est requis"
	msgSexe                 = "Le sexe est requis"
	msgDateNaissance        = "La date de naissance est requise"
	msgHopital              = "L'hôpital de naissance est requis"
	msgAdresse              = "L'adresse est requise"
	msgCodePostal           = "Le code postal est requis"
	msgVille                = "La ville est requise"
	msgCertificat           = "Le certificat d'accouchement est requis"
	msgCartePere            = "La carte d'identité du père est requise"
	msgCarteMere            = "La carte d'identité de la mère est requise"
)

func parentSection(name, who string) wizard.Section {
	return wizard.Section{Name: name, Fields: []wizard.Field{
		{Name: "nom", Kind: wizard.KindText, Label: "Nom " + who},
		{Name: "prenom", Kind: wizard.KindText, Label: "Prénom " + who},
		{Name: "numeroIdentification", Kind: wizard.KindText, Label: "Numéro d'identification"},
	}}
}

func parentRules(section string) wizard.Validator {
	return wizard.Rules(
		wizard.RequiredText(section, "nom", msgNom),
		wizard.RequiredText(section, "prenom", msgPrenom),
		wizard.RequiredText(section, "numeroIdentification", msgNumeroIdentification),
	)
}

// Definition is the birth declaration wizard.
var Definition = wizard.MustDefine(&wizard.Definition{
	Name:         Name,
	SuccessRoute: "/dashboard",
	Schema: wizard.Schema{
		parentSection(SectionPere, "du père"),
		parentSection(SectionMere, "de la mère"),
		{Name: SectionEnfant, Fields: []wizard.Field{
			{Name: "nom", Kind: wizard.KindText, Label: "Nom de l'enfant"},
			{Name: "sexe", Kind: wizard.KindChoice, Label: "Sexe", Options: []string{SexeMasculin, SexeFeminin}},
			{Name: "dateNaissance", Kind: wizard.KindDate, Label: "Date de naissance"},
			{Name: "hopital", Kind: wizard.KindText, Label: "Hôpital de naissance"},
		}},
		{Name: SectionAdresse, Fields: []wizard.Field{
			{Name: "adresseComplete", Kind: wizard.KindText, Label: "Adresse complète"},
			{Name: "codePostal", Kind: wizard.KindText, Label: "Code postal"},
			{Name: "ville", Kind: wizard.KindText, Label: "Ville"},
		}},
		{Name: SectionDocuments, Fields: []wizard.Field{
			{Name: "certificat", Kind: wizard.KindFile, Label: "Certificat d'accouchement"},
			{Name: "carteIdentitePere", Kind: wizard.KindFile, Label: "Carte d'identité du père"},
			{Name: "carteIdentiteMere", Kind: wizard.KindFile, Label: "Carte d'identité de la mère"},
			{Name: "justificatifDomicile", Kind: wizard.KindFile, Label: "Justificatif de domicile", Optional: true},
		}},
	},
	Steps: []wizard.StepDef{
		{Step: StepPere, Title: "Informations du père", Validate: parentRules(SectionPere)},
		{Step: StepMere, Title: "Informations de la mère", Validate: parentRules(SectionMere)},
		{Step: StepEnfant, Title: "Informations de l'enfant", Validate: wizard.Rules(
			wizard.RequiredText(SectionEnfant, "nom", msgNom),
			wizard.RequiredChoice(SectionEnfant, "sexe", msgSexe, SexeMasculin, SexeFeminin),
			wizard.RequiredDate(SectionEnfant, "dateNaissance", msgDateNaissance),
			wizard.RequiredText(SectionEnfant, "hopital", msgHopital),
		)},
		{Step: StepAdresse, Title: "Adresse du domicile", Validate: wizard.Rules(
			wizard.RequiredText(SectionAdresse, "adresseComplete", msgAdresse),
			wizard.RequiredText(SectionAdresse, "codePostal", msgCodePostal),
			wizard.RequiredText(SectionAdresse, "ville", msgVille),
		)},
		{Step: StepDocuments, Title: "Pièces justificatives", Validate: wizard.Rules(
			wizard.RequiredFile(SectionDocuments, "certificat", msgCertificat),
			wizard.RequiredFile(SectionDocuments, "carteIdentitePere", msgCartePere),
			wizard.RequiredFile(SectionDocuments, "carteIdentiteMere", msgCarteMere),
		)},
		{Step: StepConfirmation, Title: "Confirmation"},
	},
})
