// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

package notify_test

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djembe-app/djembe/internal/notify"
)

/*
TestMailtoFallback verifies the structure and encoding of the manual
delivery link.
*/
func TestMailtoFallback(t *testing.T) {
	record := notify.Record{
		FirstName:    "Awa",
		LastName:     "Diallo",
		Email:        "awa@example.com",
		Phone:        "+33 6 12 34 56 78",
		Experience:   notify.ExperienceAdvanced,
		Availability: []string{"Lundi", "Mercredi"},
		Motivation:   "Je danse depuis dix ans.",
		SubmittedAt:  time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC),
	}

	link := notify.MailtoFallback("inscriptions@djembe.app", record)

	require.True(t, strings.HasPrefix(link, "mailto:inscriptions@djembe.app?"))
	// Spaces must be percent-encoded; mail programs do not decode '+'.
	assert.NotContains(t, link, "+33") // raw '+' never appears
	assert.Contains(t, link, "%20")

	// The query round-trips back to readable text.
	parsed, err := url.Parse(link)
	require.NoError(t, err)
	values, err := url.ParseQuery(parsed.RawQuery)
	require.NoError(t, err)

	assert.Equal(t, "Nouvelle inscription - Équipe de Danse Africaine", values.Get("subject"))

	body := values.Get("body")
	assert.Contains(t, body, "- Prénom: Awa")
	assert.Contains(t, body, "- Email: awa@example.com")
	assert.Contains(t, body, "- Téléphone: +33 6 12 34 56 78")
	assert.Contains(t, body, "- Expérience: Avancé(e) - Très expérimenté(e)")
	assert.Contains(t, body, "- Disponibilités: Lundi, Mercredi")
	assert.Contains(t, body, "Je danse depuis dix ans.")
	assert.Contains(t, body, "Date: 14 mars 2026 à 18:30")
}

/*
TestMailtoFallback_Placeholders verifies empty optional fields render as
their French placeholders.
*/
func TestMailtoFallback_Placeholders(t *testing.T) {
	record := notify.Record{
		FirstName:   "Awa",
		LastName:    "Diallo",
		Email:       "awa@example.com",
		Phone:       "06 12 34 56 78",
		SubmittedAt: time.Now(),
	}

	link := notify.MailtoFallback("inscriptions@djembe.app", record)

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	values, err := url.ParseQuery(parsed.RawQuery)
	require.NoError(t, err)

	body := values.Get("body")
	assert.Contains(t, body, "- Date de naissance: Non spécifiée")
	assert.Contains(t, body, "- Expérience: Non spécifiée")
	assert.Contains(t, body, "- Disponibilités: Aucune disponibilité spécifiée")
	assert.Contains(t, body, "Aucune motivation spécifiée")
}

/*
TestExperienceLabel covers the code-to-label mapping.
*/
func TestExperienceLabel(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{notify.ExperienceBeginner, "Débutant(e) - Jamais dansé"},
		{notify.ExperienceAmateur, "Amateur - Quelques cours"},
		{notify.ExperienceIntermediate, "Intermédiaire - Plusieurs années"},
		{notify.ExperienceAdvanced, "Avancé(e) - Très expérimenté(e)"},
		{"", "Non spécifiée"},
		{"expert", "Non spécifiée"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, notify.ExperienceLabel(tt.code))
	}
}
