package garage

import (
	"context"
	"strings"

	"garage_backend/pkg/apperr"
	"garage_backend/pkg/billing"
	"garage_backend/pkg/messaging"
	"garage_backend/pkg/models"
	"garage_backend/pkg/store"
)

// TemplateInput is an operator-authored template
type TemplateInput struct {
	Name     string                  `json:"name" validate:"required,max=100"`
	Content  string                  `json:"content" validate:"required,max=2000"`
	Category models.TemplateCategory `json:"category" validate:"omitempty,oneof=reminder invoice payment status feedback custom"`
}

func (in *TemplateInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Content = strings.TrimSpace(in.Content)
	if in.Category == "" {
		in.Category = models.TemplateCategoryCustom
	}
}

// ComposeInput selects what to write to whom. With no template and no
// content the manual note skeleton is used.
type ComposeInput struct {
	CustomerID string  `json:"customer_id" validate:"required"`
	JobID      *string `json:"job_id"`
	TemplateID *string `json:"template_id"`
	Content    *string `json:"content" validate:"omitempty,max=2000"`
}

// Composition is a filled message ready to hand to a channel
type Composition struct {
	Message      string `json:"message"`
	TemplateName string `json:"template_name"`
	Phone        string `json:"phone"`
	WhatsAppLink string `json:"whatsapp_link"`
	SMSLink      string `json:"sms_link"`
}

// LogInput records a message the operator sent
type LogInput struct {
	CustomerID     string                `json:"customer_id" validate:"required"`
	JobID          *string               `json:"job_id"`
	TemplateName   *string               `json:"template_name" validate:"omitempty,max=100"`
	MessageContent string                `json:"message_content" validate:"required"`
	SentVia        models.MessageChannel `json:"sent_via" validate:"required,oneof=whatsapp sms"`
}

// ListTemplates returns built-ins first, then the operator's own by name
func (s *Service) ListTemplates(ctx context.Context) ([]models.CommunicationTemplate, error) {
	return do(ctx, s, "list templates", func() ([]models.CommunicationTemplate, error) {
		return store.Query[models.CommunicationTemplate](ctx, s.store,
			store.Order("is_built_in DESC"), store.Order("name ASC"))
	})
}

func (s *Service) CreateTemplate(ctx context.Context, in TemplateInput) (*models.CommunicationTemplate, error) {
	const action = "create template"
	in.normalize()
	if err := check(action, in); err != nil {
		return nil, err
	}
	return do(ctx, s, action, func() (*models.CommunicationTemplate, error) {
		tpl := &models.CommunicationTemplate{Name: in.Name, Content: in.Content, Category: in.Category}
		if err := store.Create(ctx, s.store, tpl); err != nil {
			return nil, err
		}
		return tpl, nil
	})
}

func (s *Service) UpdateTemplate(ctx context.Context, id string, in TemplateInput) (*models.CommunicationTemplate, error) {
	const action = "update template"
	in.normalize()
	if err := check(action, in); err != nil {
		return nil, err
	}
	return do(ctx, s, action, func() (*models.CommunicationTemplate, error) {
		var out *models.CommunicationTemplate
		err := s.store.Transaction(ctx, func(tx *store.Store) error {
			if err := editableTemplate(ctx, tx, id); err != nil {
				return err
			}
			var err error
			out, err = store.Update[models.CommunicationTemplate](ctx, tx, id, map[string]interface{}{
				"name":     in.Name,
				"content":  in.Content,
				"category": in.Category,
			})
			return err
		})
		return out, err
	})
}

func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	return exec(ctx, s, "delete template", func() error {
		return s.store.Transaction(ctx, func(tx *store.Store) error {
			if err := editableTemplate(ctx, tx, id); err != nil {
				return err
			}
			return store.Delete[models.CommunicationTemplate](ctx, tx, id)
		})
	})
}

func editableTemplate(ctx context.Context, tx *store.Store, id string) error {
	tpl, err := store.Get[models.CommunicationTemplate](ctx, tx, id)
	if err != nil {
		return err
	}
	if tpl.IsBuiltIn {
		return &apperr.ConstraintError{Entity: "template", Detail: "built-in templates are read-only"}
	}
	return nil
}

// EnsureBuiltInTemplates adds any built-in template the operator is missing
func (s *Service) EnsureBuiltInTemplates(ctx context.Context) error {
	return exec(ctx, s, "seed templates", func() error {
		return s.store.Transaction(ctx, func(tx *store.Store) error {
			existing, err := store.Query[models.CommunicationTemplate](ctx, tx, store.Where("is_built_in = ?", true))
			if err != nil {
				return err
			}
			have := make(map[string]bool, len(existing))
			for _, t := range existing {
				have[t.Name] = true
			}
			for _, t := range messaging.BuiltInTemplates() {
				if have[t.Name] {
					continue
				}
				tpl := t
				if err := store.Create(ctx, tx, &tpl); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// Compose fills a template for a customer, using the job's figures when a
// job is given and the garage settings for the signature
func (s *Service) Compose(ctx context.Context, in ComposeInput) (*Composition, error) {
	const action = "compose message"
	if err := check(action, in); err != nil {
		return nil, err
	}
	return do(ctx, s, action, func() (*Composition, error) {
		customer, err := store.Get[models.Customer](ctx, s.store, in.CustomerID)
		if err != nil {
			return nil, err
		}
		garage, err := s.settings(ctx, s.store)
		if err != nil {
			return nil, err
		}

		fields := messaging.Fields{
			CustomerName:  customer.Name,
			GarageName:    garage.Name,
			GaragePhone:   garage.Phone,
			GarageAddress: garage.Address,
		}
		if garage.Website != nil {
			fields.FeedbackLink = *garage.Website
		}

		var bike *models.Bike
		if in.JobID != nil && *in.JobID != "" {
			job, err := store.Get[models.Job](ctx, s.store, *in.JobID, store.Preload("Bike"))
			if err != nil {
				return nil, err
			}
			if job.Bike == nil || job.Bike.CustomerID != customer.ID {
				return nil, apperr.NotFound("job")
			}
			bike = job.Bike
			total, pending := job.FinalTotal, billing.Balance(job.FinalTotal, job.PaidAmount)
			fields.InvoiceAmount = &total
			fields.PendingAmount = &pending
			fields.DueDate = job.NextServiceDate
			if job.InvoiceNumber != nil {
				fields.InvoiceNumber = *job.InvoiceNumber
			}
		} else {
			bikes, err := store.Query[models.Bike](ctx, s.store,
				store.Where("customer_id = ?", customer.ID), store.Order("created_at DESC"), store.Limit(1))
			if err != nil {
				return nil, err
			}
			if len(bikes) > 0 {
				bike = &bikes[0]
			}
		}
		if bike != nil {
			fields.BikeModel = bike.MakeModel
			fields.RegNumber = bike.RegistrationNumber
		}

		content, name := messaging.ManualTemplate, messaging.ManualNoteName
		switch {
		case in.TemplateID != nil && *in.TemplateID != "":
			tpl, err := store.Get[models.CommunicationTemplate](ctx, s.store, *in.TemplateID)
			if err != nil {
				return nil, err
			}
			content, name = tpl.Content, tpl.Name
		case in.Content != nil && strings.TrimSpace(*in.Content) != "":
			content, name = *in.Content, messaging.CustomMessageName
		}

		phone := customer.Phone
		if customer.WhatsApp != nil {
			phone = *customer.WhatsApp
		}
		message := messaging.Fill(content, fields)
		return &Composition{
			Message:      message,
			TemplateName: name,
			Phone:        phone,
			WhatsAppLink: messaging.WhatsAppLink(phone, message),
			SMSLink:      messaging.SMSLink(customer.Phone, message),
		}, nil
	})
}

// LogCommunication appends an entry to the customer's message history
func (s *Service) LogCommunication(ctx context.Context, in LogInput) (*models.CommunicationLog, error) {
	const action = "log communication"
	in.TemplateName = trimmed(in.TemplateName)
	if err := check(action, in); err != nil {
		return nil, err
	}
	return do(ctx, s, action, func() (*models.CommunicationLog, error) {
		entry := &models.CommunicationLog{
			CustomerID:     in.CustomerID,
			JobID:          in.JobID,
			TemplateName:   in.TemplateName,
			MessageContent: in.MessageContent,
			SentVia:        in.SentVia,
			Status:         "sent",
		}
		if entry.JobID != nil && *entry.JobID == "" {
			entry.JobID = nil
		}
		err := s.store.Transaction(ctx, func(tx *store.Store) error {
			if _, err := store.Get[models.Customer](ctx, tx, in.CustomerID); err != nil {
				return err
			}
			if entry.JobID != nil {
				if _, err := store.Get[models.Job](ctx, tx, *entry.JobID); err != nil {
					return err
				}
			}
			return store.Create(ctx, tx, entry)
		})
		if err != nil {
			return nil, err
		}
		return entry, nil
	})
}

// ListCommunicationLogs returns the newest entries first, for one customer
// when customerID is set
func (s *Service) ListCommunicationLogs(ctx context.Context, customerID string) ([]models.CommunicationLog, error) {
	return do(ctx, s, "list communication logs", func() ([]models.CommunicationLog, error) {
		scopes := []store.Scope{store.Order("created_at DESC")}
		if customerID != "" {
			scopes = append(scopes, store.Where("customer_id = ?", customerID))
		}
		return store.Query[models.CommunicationLog](ctx, s.store, scopes...)
	})
}
