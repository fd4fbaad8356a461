package app

import (
	"context"
	"net/http"

	"github.com/codekeep/codekeep/core/logger"
	"github.com/codekeep/codekeep/core/record"
	"github.com/codekeep/codekeep/core/response"
	"github.com/codekeep/codekeep/core/totp"
)

// totpResponse is the one-shot view of a record's current code. NextCode is
// the lookahead for the following window.
type totpResponse struct {
	Code      string `json:"code"`
	NextCode  string `json:"next_code,omitempty"`
	Remaining int    `json:"remaining"`
	Label     string `json:"label,omitempty"`
	Issuer    string `json:"issuer,omitempty"`
}

// totpRecord loads the record and parses its value as a TOTP URI, writing
// the error response itself when either step fails.
func (a *App) totpRecord(w http.ResponseWriter, r *http.Request) (record.Record, *totp.URI, bool) {
	id, err := recordID(r)
	if err != nil {
		a.render(w, r, response.JSONError(http.StatusBadRequest, "invalid record id"))
		return record.Record{}, nil, false
	}

	rec, err := a.store.Get(r.Context(), id)
	if err != nil {
		a.render(w, r, storeErrorResponse(err))
		return record.Record{}, nil, false
	}

	uri, err := totp.ParseURI(rec.Value)
	if err != nil {
		// Not an error from the user's perspective: most scanned values are
		// plain text and are displayed as such.
		a.render(w, r, response.JSONError(http.StatusUnprocessableEntity,
			"record value is not a totp uri"))
		return record.Record{}, nil, false
	}
	return rec, uri, true
}

func (a *App) handleRecordTOTP(w http.ResponseWriter, r *http.Request) {
	rec, uri, ok := a.totpRecord(w, r)
	if !ok {
		return
	}

	resp := totpResponse{
		Remaining: totp.RemainingSeconds(),
		Label:     uri.Label,
		Issuer:    uri.Issuer,
	}

	code, err := totp.GenerateCode(uri.Secret)
	if err != nil {
		// Countdown keeps running; the code slot carries the error marker.
		a.logger.WarnContext(r.Context(), "totp derivation failed",
			logger.RecordID(rec.ID.String()), logger.Error(err))
		resp.Code = totp.ErrorCode
		a.render(w, r, response.JSON(resp))
		return
	}
	resp.Code = code

	if next, err := totp.GenerateNextCode(uri.Secret); err == nil {
		resp.NextCode = next
	}
	a.render(w, r, response.JSON(resp))
}

func (a *App) handleRecordTOTPStream(w http.ResponseWriter, r *http.Request) {
	rec, _, ok := a.totpRecord(w, r)
	if !ok {
		return
	}

	ticks, ok := a.watchRecord(w, r, rec)
	if !ok {
		return
	}
	a.render(w, r, response.SSE(ticks,
		response.WithEventName("tick"),
		response.WithoutKeepAlive(),
		response.WithSSEErrorHandler(func(ctx context.Context, err error) {
			a.logger.WarnContext(ctx, "totp stream interrupted",
				logger.RecordID(rec.ID.String()), logger.Error(err))
		})))
}

func (a *App) handleRecordTOTPSocket(w http.ResponseWriter, r *http.Request) {
	rec, _, ok := a.totpRecord(w, r)
	if !ok {
		return
	}

	ticks, ok := a.watchRecord(w, r, rec)
	if !ok {
		return
	}
	a.render(w, r, response.WebSocketJSON(ticks,
		response.WithWSErrorHandler(func(ctx context.Context, err error) {
			a.logger.WarnContext(ctx, "totp websocket interrupted",
				logger.RecordID(rec.ID.String()), logger.Error(err))
		})))
}

// watchRecord starts a watcher bound to the request context and bridges its
// ticks into a channel the streaming responders consume. The watcher stops
// and the bridge closes as soon as the client disconnects.
func (a *App) watchRecord(w http.ResponseWriter, r *http.Request, rec record.Record) (<-chan any, bool) {
	watcher, err := totp.NewWatcher(rec.Value, totp.WithLogger(a.logger))
	if err != nil {
		a.render(w, r, response.JSONError(http.StatusUnprocessableEntity,
			"record value is not a totp uri"))
		return nil, false
	}

	ticks, err := watcher.Start(r.Context())
	if err != nil {
		a.logger.ErrorContext(r.Context(), "start totp watcher failed",
			logger.RecordID(rec.ID.String()), logger.Error(err))
		a.render(w, r, response.JSONError(http.StatusInternalServerError, "internal error"))
		return nil, false
	}

	out := make(chan any)
	go func() {
		defer close(out)
		for tick := range ticks {
			select {
			case out <- tick:
			case <-r.Context().Done():
				return
			}
		}
	}()
	return out, true
}
