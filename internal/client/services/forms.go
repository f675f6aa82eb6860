package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ecosync/ecosync/internal/client/api"
	"github.com/ecosync/ecosync/internal/client/forms"
	"github.com/ecosync/ecosync/internal/client/models"
	"github.com/ecosync/ecosync/internal/client/session"
	"github.com/ecosync/ecosync/internal/client/ui"
	"github.com/ecosync/ecosync/internal/imaging"
	"github.com/ecosync/ecosync/internal/logging"
)

const (
	FormLogin     = "login"
	FormRegister  = "register"
	FormUpload    = "upload"
	FormBarter    = "barter"
	FormLostFound = "lostFound"
)

const (
	msgAccountCreated = "Account Created!"
	msgEmailExists    = "Email exists. Please Login."
	msgAssetListed    = "Asset listed."
	msgMatchFound     = "MATCH FOUND! View details in 'matches'."
	msgIntentPosted   = "Intent posted. We'll search for matches."
	msgReportSent     = "Report Submitted!"
)

var ErrNotLoggedIn = errors.New("not logged in")

// classify turns a failed call into the outcome shown to the user. A
// non-empty conflict message is used for HTTP 400.
func classify(err error, conflict string) forms.Outcome {
	switch {
	case errors.Is(err, api.ErrUnavailable):
		return forms.Outcome{State: forms.NetworkError, Message: msgUnavailable}
	case conflict != "" && errors.Is(err, api.ErrConflict):
		return forms.Outcome{State: forms.DomainError, Message: conflict}
	}
	return forms.Outcome{State: forms.Failed, Message: "Error: " + api.Detail(err)}
}

// Classify is the outcome a failed backend call shows outside a form.
func Classify(err error) forms.Outcome {
	return classify(err, "")
}

// LostFoundInput is the lost & found form. PhotoPath is optional.
type LostFoundInput struct {
	ItemName    string
	Category    string
	Description string
	Type        string
	PhotoPath   string
}

// Dispatcher binds the register, upload, barter and lost & found forms to
// their endpoints. Each form renders its outcome into its own region and
// refuses a second submit while the first is running.
type Dispatcher struct {
	client   api.Client
	view     *ui.View
	sess     *session.Context
	sessions *SessionService
	lists    *ListService
	log      logging.Logger
	byName   map[string]*forms.Form
}

func NewDispatcher(client api.Client, view *ui.View, sess *session.Context, sessions *SessionService, lists *ListService, log logging.Logger, opts ...forms.Option) *Dispatcher {
	d := &Dispatcher{
		client:   client,
		view:     view,
		sess:     sess,
		sessions: sessions,
		lists:    lists,
		log:      log.With("service", "forms"),
		byName:   make(map[string]*forms.Form),
	}
	for _, name := range []string{FormRegister, FormUpload, FormBarter, FormLostFound} {
		d.byName[name] = forms.New(name, opts...)
	}
	return d
}

// Form returns the named form's lifecycle tracker.
func (d *Dispatcher) Form(name string) *forms.Form {
	return d.byName[name]
}

func (d *Dispatcher) submit(ctx context.Context, name string, region ui.Region, h forms.Handler) (forms.Outcome, error) {
	out, err := d.byName[name].Submit(ctx, h)
	if err != nil {
		return out, err
	}
	if out.State != forms.Success || name != FormUpload {
		d.view.Show(region, d.view.Styles.Message(out))
	}
	d.log.Debug(ctx, "form submitted", "form", name, "state", out.State.String())
	return out, nil
}

// resetProfile puts the form's profile selector back on the session user.
func (d *Dispatcher) resetProfile(sel ui.SelectorID) {
	s := d.view.Selector(sel)
	s.Reset()
	if id, ok := d.sess.UserID(); ok {
		s.Select(id)
	}
}

// Register creates an account and logs into it.
func (d *Dispatcher) Register(ctx context.Context, in models.UserCreate) (forms.Outcome, error) {
	if err := forms.Required(
		forms.Field{Name: "name", Value: in.Name},
		forms.Field{Name: "email", Value: in.Email},
	); err != nil {
		return forms.Outcome{}, err
	}

	return d.submit(ctx, FormRegister, ui.RegionRegister, func(ctx context.Context) forms.Outcome {
		created, err := d.client.CreateUser(ctx, in)
		if err != nil {
			return classify(err, msgEmailExists)
		}

		if _, err := d.sessions.PopulateSelectors(ctx); err != nil {
			d.log.Warn(ctx, "populate selectors failed", "error", err)
		}
		d.sessions.apply(ctx, *created)
		return forms.Succeeded(msgAccountCreated)
	})
}

// UploadItem lists a new item from the photo at photoPath. On success the
// upload region shows the backend's analysis card.
func (d *Dispatcher) UploadItem(ctx context.Context, userID int64, photoPath string) (forms.Outcome, error) {
	userID, err := pickUser(d.view, d.sess, ui.SelectUpload, userID)
	if err != nil {
		return forms.Outcome{}, err
	}
	if err := forms.Required(forms.Field{Name: "photo", Value: photoPath}); err != nil {
		return forms.Outcome{}, err
	}
	photo, err := loadPhoto(photoPath)
	if err != nil {
		return forms.Outcome{}, err
	}

	return d.submit(ctx, FormUpload, ui.RegionUpload, func(ctx context.Context) forms.Outcome {
		res, err := d.client.UploadItemPhoto(ctx, userID, photo)
		if err != nil {
			return classify(err, "")
		}

		d.view.Show(ui.RegionUpload, d.view.Styles.UploadCard(*res))
		if _, err := d.lists.UserItems(ctx, userID); err != nil {
			d.log.Warn(ctx, "refresh items failed", "error", err)
		}
		d.resetProfile(ui.SelectUpload)
		return forms.Succeeded(msgAssetListed)
	})
}

// PostBarterIntent offers an owned item for a wanted category. The item
// comes from in.ItemID or the barter item selector.
func (d *Dispatcher) PostBarterIntent(ctx context.Context, userID int64, in models.BarterIntentCreate) (forms.Outcome, error) {
	userID, err := pickUser(d.view, d.sess, ui.SelectBarter, userID)
	if err != nil {
		return forms.Outcome{}, err
	}
	if in.ItemID == 0 {
		id, ok := d.view.Selector(ui.SelectBarterItem).Selected()
		if !ok {
			return forms.Outcome{}, fmt.Errorf("%w: item required", forms.ErrValidation)
		}
		in.ItemID = id
	}

	return d.submit(ctx, FormBarter, ui.RegionBarter, func(ctx context.Context) forms.Outcome {
		res, err := d.client.CreateBarterIntent(ctx, userID, in)
		if err != nil {
			return classify(err, "")
		}

		d.view.Selector(ui.SelectBarterItem).Reset()
		d.resetProfile(ui.SelectBarter)
		if res.MatchFound {
			return forms.Succeeded(msgMatchFound)
		}
		return forms.Succeeded(msgIntentPosted)
	})
}

// ReportLostFound files a lost or found report and reloads the list. A
// photo that the backend refuses is dropped and the report is filed
// without it.
func (d *Dispatcher) ReportLostFound(ctx context.Context, userID int64, in LostFoundInput) (forms.Outcome, error) {
	userID, err := pickUser(d.view, d.sess, ui.SelectLostFound, userID)
	if err != nil {
		return forms.Outcome{}, err
	}
	if err := forms.Required(
		forms.Field{Name: "item name", Value: in.ItemName},
		forms.Field{Name: "type", Value: in.Type},
	); err != nil {
		return forms.Outcome{}, err
	}
	if in.Type != models.ReportLost && in.Type != models.ReportFound {
		return forms.Outcome{}, fmt.Errorf("%w: type must be %q or %q", forms.ErrValidation, models.ReportLost, models.ReportFound)
	}

	var photo *models.Photo
	if in.PhotoPath != "" {
		p, err := loadPhoto(in.PhotoPath)
		if err != nil {
			return forms.Outcome{}, err
		}
		photo = &p
	}

	return d.submit(ctx, FormLostFound, ui.RegionLostFound, func(ctx context.Context) forms.Outcome {
		req := models.LostFoundCreate{
			ItemName:    in.ItemName,
			Category:    in.Category,
			Description: in.Description,
			Type:        in.Type,
		}
		if photo != nil {
			url, err := d.client.UploadLostFoundPhoto(ctx, *photo)
			if err != nil {
				d.log.Warn(ctx, "lost & found photo skipped", "error", err)
			} else {
				req.PhotoURL = &url
			}
		}

		if _, err := d.client.CreateLostFound(ctx, userID, req); err != nil {
			return classify(err, "")
		}

		if _, err := d.lists.LostFound(ctx, models.LostFoundFilter{}); err != nil {
			d.log.Warn(ctx, "reload lost & found failed", "error", err)
		}
		d.resetProfile(ui.SelectLostFound)
		return forms.Succeeded(msgReportSent)
	})
}

func loadPhoto(path string) (models.Photo, error) {
	p, err := imaging.Load(path)
	if err != nil {
		return models.Photo{}, fmt.Errorf("%w: %v", forms.ErrValidation, err)
	}
	return models.Photo{Filename: p.Filename, ContentType: p.MIME, Data: p.Data}, nil
}
