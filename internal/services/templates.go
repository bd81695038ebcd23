package services

import (
	"context"
	"errors"
	"fmt"

	"refereehub/internal/domain"
)

// renderedContent is a template rendered for one recipient.
type renderedContent struct {
	TemplateName string
	Subject      string
	HTML         string
	Text         string
}

// letterTemplate is a resolved template: a stored LetterTemplate, or the embedded default when
// stored is nil.
type letterTemplate struct {
	templateType string
	stored       *domain.LetterTemplate
}

func (t *letterTemplate) name() string {
	if t.stored != nil {
		return t.stored.Name
	}
	return "default:" + t.templateType
}

// templateResolver finds the template to use for a recipient category and renders it.
type templateResolver struct {
	repo     domain.LetterTemplateRepository
	renderer domain.EmailTemplateRenderer
}

func newTemplateResolver(repo domain.LetterTemplateRepository, renderer domain.EmailTemplateRenderer) *templateResolver {
	return &templateResolver{repo: repo, renderer: renderer}
}

// resolve applies the lookup order: explicit id, zone default, global default, embedded default.
func (r *templateResolver) resolve(ctx context.Context, explicitID, templateType, zoneID string) (*letterTemplate, error) {
	if explicitID != "" {
		tpl, err := r.repo.GetByID(ctx, explicitID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, invalidInput("unknown template %s", explicitID)
			}
			return nil, fmt.Errorf("get template: %w", err)
		}
		if tpl.ZoneID != nil && *tpl.ZoneID != zoneID {
			return nil, invalidInput("template %s belongs to another zone", explicitID)
		}
		if !tpl.IsActive {
			return nil, invalidInput("template %s is not active", explicitID)
		}
		return &letterTemplate{templateType: templateType, stored: tpl}, nil
	}

	zones := []string{zoneID}
	if zoneID != "" {
		zones = append(zones, "")
	}
	for _, zone := range zones {
		tpl, err := r.repo.FindDefault(ctx, templateType, zone)
		if err == nil {
			return &letterTemplate{templateType: templateType, stored: tpl}, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("find default template: %w", err)
		}
	}
	return &letterTemplate{templateType: templateType}, nil
}

func (r *templateResolver) render(tpl *letterTemplate, vars templateVars) (*renderedContent, error) {
	if tpl.stored != nil {
		text := vars.apply(tpl.stored.Body)
		return &renderedContent{
			TemplateName: tpl.stored.Name,
			Subject:      vars.apply(tpl.stored.Subject),
			HTML:         textToHTML(text),
			Text:         text,
		}, nil
	}
	subject, htmlBody, textBody, err := r.renderer.Render(tpl.templateType, map[string]string(vars))
	if err != nil {
		return nil, fmt.Errorf("render default %s template: %w", tpl.templateType, err)
	}
	return &renderedContent{TemplateName: tpl.name(), Subject: subject, HTML: htmlBody, Text: textBody}, nil
}
