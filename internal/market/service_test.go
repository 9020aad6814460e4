package market

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"glowwwmarket/internal/errs"
	"glowwwmarket/internal/models"
)

// validRequest returns a submission that passes validation; tests mutate
// single fields to probe each rule.
func validRequest() SubmitRequest {
	return SubmitRequest{
		Name:       "Portfolio Starter",
		Category:   "portfolio",
		Tags:       []string{"portfolio", "minimal"},
		Commercial: models.TemplateCommercialFree,
		Content:    json.RawMessage(`{"ROOT":{"type":"Container","nodes":[]}}`),
		CreatorID:  uuid.New(),
	}
}

func TestValidateSubmission(t *testing.T) {
	svc := NewService(nil, nil, nil, nil, nil, "http://localhost:8080")

	tests := []struct {
		name   string
		mutate func(*SubmitRequest)
		field  string
	}{
		{"blank name", func(r *SubmitRequest) { r.Name = "   " }, "name"},
		{"name too long", func(r *SubmitRequest) { r.Name = strings.Repeat("x", MaxNameLen+1) }, "name"},
		{"description too long", func(r *SubmitRequest) { r.Description = strings.Repeat("y", MaxDescriptionLen+1) }, "description"},
		{"missing category", func(r *SubmitRequest) { r.Category = "" }, "category"},
		{"too many tags", func(r *SubmitRequest) {
			r.Tags = make([]string, MaxTags+1)
			for i := range r.Tags {
				r.Tags[i] = "tag" + strings.Repeat("a", i+1)
			}
		}, "tags"},
		{"unknown commercial tier", func(r *SubmitRequest) { r.Commercial = "freemium" }, "commercial"},
		{"negative price", func(r *SubmitRequest) {
			r.Commercial = models.TemplateCommercialPaid
			r.Price = -5
		}, "price"},
		{"free with price", func(r *SubmitRequest) { r.Price = 9.99 }, "price"},
		{"paid without price", func(r *SubmitRequest) { r.Commercial = models.TemplateCommercialPaid }, "price"},
		{"missing creator", func(r *SubmitRequest) { r.CreatorID = uuid.Nil }, "creator_id"},
		{"empty content", func(r *SubmitRequest) { r.Content = nil }, "content"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			err := svc.validateSubmission(req)
			var ve *errs.ValidationError
			if assert.ErrorAs(t, err, &ve) {
				assert.Equal(t, tc.field, ve.Field)
			}
		})
	}

	assert.NoError(t, svc.validateSubmission(validRequest()))
}

func TestValidateSubmissionCountsRunesNotBytes(t *testing.T) {
	svc := NewService(nil, nil, nil, nil, nil, "")
	req := validRequest()
	// 200 multi-byte runes are exactly at the limit.
	req.Name = strings.Repeat("ü", MaxNameLen)
	assert.NoError(t, svc.validateSubmission(req))
}

func TestSubmitRejectsInvalidInputBeforePersistence(t *testing.T) {
	// A nil-store service proves validation short-circuits any DB access.
	svc := NewService(nil, nil, nil, nil, nil, "")

	req := validRequest()
	req.Name = ""
	_, err := svc.Submit(context.Background(), req)
	assert.True(t, errs.IsValidation(err))

	req = validRequest()
	req.Content = json.RawMessage(`{"hero":{}}`)
	_, err = svc.Submit(context.Background(), req)
	assert.True(t, errs.IsValidation(err), "snapshot without ROOT is rejected: %v", err)
}

func TestNormalizeTags(t *testing.T) {
	got := normalizeTags([]string{" Portfolio ", "MINIMAL", "portfolio", "", "  ", "dark-mode"})
	assert.Equal(t, []string{"portfolio", "minimal", "dark-mode"}, got)

	assert.Empty(t, normalizeTags(nil))
}

func TestSlugFor(t *testing.T) {
	assert.Equal(t, "portfolio-starter", slugFor("Portfolio Starter"))
	assert.Equal(t, "template", slugFor("!!!"), "unsluggable names fall back")
}

func TestShareURL(t *testing.T) {
	svc := NewService(nil, nil, nil, nil, nil, "https://market.glowww.app")
	url := svc.ShareURL(&models.Template{Slug: "portfolio-starter"})
	assert.Equal(t, "https://market.glowww.app/t/portfolio-starter", url)
}
