package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	remindersvc "github.com/homestockhq/homestock-backend/internal/reminders"
	"github.com/homestockhq/homestock-backend/pkg/db/models"
	"github.com/homestockhq/homestock-backend/pkg/enums"
)

type testRemindersService struct {
	checkFn    func(ctx context.Context, manual bool) (enums.CheckStatus, error)
	settingsFn func(ctx context.Context, input remindersvc.UpdateSettingsInput) (*models.ReminderSettings, error)
}

func (s *testRemindersService) GetSettings(ctx context.Context) (models.ReminderSettings, error) {
	return models.DefaultReminderSettings(), nil
}

func (s *testRemindersService) UpdateSettings(ctx context.Context, input remindersvc.UpdateSettingsInput) (*models.ReminderSettings, error) {
	if s.settingsFn != nil {
		return s.settingsFn(ctx, input)
	}
	return &models.ReminderSettings{}, nil
}

func (s *testRemindersService) GetCheckState(ctx context.Context) (models.ReminderCheckState, error) {
	return models.ReminderCheckState{LastStatus: enums.CheckStatusNotChecked}, nil
}

func (s *testRemindersService) CheckAndSendReminders(ctx context.Context, manual bool) (enums.CheckStatus, error) {
	if s.checkFn != nil {
		return s.checkFn(ctx, manual)
	}
	return enums.CheckStatusCheckedNoSend, nil
}

func TestReminderTriggerIsManual(t *testing.T) {
	var gotManual bool
	svc := &testRemindersService{
		checkFn: func(ctx context.Context, manual bool) (enums.CheckStatus, error) {
			gotManual = manual
			return enums.CheckStatusCheckedSent, nil
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reminders/trigger", nil)
	resp := httptest.NewRecorder()
	ReminderTrigger(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if !gotManual {
		t.Fatal("trigger must run the check as manual")
	}
	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data["status"] != string(enums.CheckStatusCheckedSent) {
		t.Fatalf("unexpected status %q", envelope.Data["status"])
	}
}

func TestSettingsUpdateRejectsBadHour(t *testing.T) {
	body := strings.NewReader(`{"advance_days":7,"notify_hour":25,"notify_minute":0,"quiet_start_hour":22,"quiet_start_minute":0,"quiet_end_hour":8,"quiet_end_minute":0}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/reminders/settings", body)
	resp := httptest.NewRecorder()
	SettingsUpdate(&testRemindersService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSettingsUpdateForwardsPayload(t *testing.T) {
	svc := &testRemindersService{
		settingsFn: func(ctx context.Context, input remindersvc.UpdateSettingsInput) (*models.ReminderSettings, error) {
			if input.AdvanceDays != 5 || !input.QuietHoursEnabled {
				t.Fatalf("payload not forwarded: %+v", input)
			}
			return &models.ReminderSettings{ID: models.SettingsRowID, AdvanceDays: 5}, nil
		},
	}
	body := strings.NewReader(`{"advance_days":5,"include_warranty":true,"stock_reminder_enabled":true,"notify_hour":9,"notify_minute":0,"quiet_hours_enabled":true,"quiet_start_hour":22,"quiet_start_minute":0,"quiet_end_hour":8,"quiet_end_minute":0,"weekend_pause":false,"push_enabled":true,"in_app_enabled":true}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/reminders/settings", body)
	resp := httptest.NewRecorder()
	SettingsUpdate(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}
