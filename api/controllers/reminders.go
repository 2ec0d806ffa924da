package controllers

import (
	"net/http"

	"github.com/homestockhq/homestock-backend/api/responses"
	"github.com/homestockhq/homestock-backend/api/validators"
	remindersvc "github.com/homestockhq/homestock-backend/internal/reminders"
	"github.com/homestockhq/homestock-backend/pkg/logger"
)

// SettingsGet returns the reminder settings, defaults included.
func SettingsGet(svc remindersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := svc.GetSettings(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settings)
	}
}

// SettingsUpdate replaces the reminder settings wholesale.
func SettingsUpdate(svc remindersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload remindersvc.UpdateSettingsInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		settings, err := svc.UpdateSettings(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settings)
	}
}

// ReminderCheckState returns when the check last ran and how it ended.
func ReminderCheckState(svc remindersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := svc.GetCheckState(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}

// ReminderTrigger runs a manual reminder check. Manual runs skip the schedule
// gate but still honor quiet hours and the weekend pause.
func ReminderTrigger(svc remindersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := svc.CheckAndSendReminders(r.Context(), true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": string(status)})
	}
}
