package remote

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"Nil", nil, false},
		{"RateLimit", errors.New("User Rate Limit Exceeded"), true},
		{"Quota", errors.New("Quota exceeded for quota metric"), true},
		{"ServerError", &Error{Op: "get", Type: "Ads", StatusCode: 503, Message: "unavailable"}, true},
		{"TryAgain", errors.New("Please try again in 30 seconds"), true},
		{"DocumentMissing", errors.New("Document 1abc is missing (perhaps it was deleted, or you don't have read access?)"), true},
		{"EmptyResponse", errors.New("Empty response"), true},
		{"Wrapped", fmt.Errorf("failed to list: %w", errors.New("Internal error encountered")), true},
		{"NotFound", &Error{Op: "get", Type: "Ads", StatusCode: 404, Message: "Not Found"}, false},
		{"Validation", errors.New("Invalid value for field name"), false},
		{"Exhausted", &RetriesExhaustedError{Op: "get", Attempts: 5, Err: errors.New("quota")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestRetriesExhaustedError(t *testing.T) {
	inner := errors.New("rate limit")
	err := fmt.Errorf("failed: %w", &RetriesExhaustedError{Op: "list Ads", Attempts: 5, Err: inner})

	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "after 5 attempts")
}

func TestOptionsKeyIsCanonical(t *testing.T) {
	a := Options{"b": 1, "a": []string{"x"}}
	b := Options{"a": []string{"x"}, "b": 1}
	assert.Equal(t, a.key(), b.key())
}

func TestResourcePath(t *testing.T) {
	assert.Equal(t, "advertiserLandingPages", resourcePath("AdvertiserLandingPages"))
	assert.Equal(t, "campaigns/1/campaignCreativeAssociations", resourcePath("Campaigns/1/CampaignCreativeAssociations"))
}
