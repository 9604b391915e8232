package onboarding

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func formWith(ssids ...string) *WifiForm {
	f := NewWifiForm()
	f.SetNetworks(NetworkSnapshot{Revision: 1, Networks: nets(ssids...)})
	return f
}

func strPtr(s string) *string { return &s }

func TestComputeLayout(t *testing.T) {
	tests := []struct {
		listEmpty bool
		isOther   bool
		want      FieldLayout
		dropdown  bool
		manual    bool
	}{
		{true, false, LayoutNoNetworksKnown, false, true},
		{true, true, LayoutNoNetworksKnown, false, true},
		{false, false, LayoutDropdownChoice, true, false},
		{false, true, LayoutManualChoice, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			got := ComputeLayout(tt.listEmpty, tt.isOther)
			if got != tt.want {
				t.Errorf("ComputeLayout(%v, %v) = %v, want %v", tt.listEmpty, tt.isOther, got, tt.want)
			}
			if got.ShowDropdown() != tt.dropdown {
				t.Errorf("ShowDropdown() = %v, want %v", got.ShowDropdown(), tt.dropdown)
			}
			if got.ShowManualSSID() != tt.manual {
				t.Errorf("ShowManualSSID() = %v, want %v", got.ShowManualSSID(), tt.manual)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"empty is allowed", "", false},
		{"three ASCII bytes", "abc", true},
		{"seven ASCII bytes", "abcdefg", true},
		{"eight ASCII bytes", "abcdefgh", false},
		{"seven two-byte characters", strings.Repeat("é", 7), false},
		{"three two-byte characters", "ééé", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
			if err != nil && !IsValidationError(err) {
				t.Errorf("ValidatePassword(%q) error = %T, want *ValidationError", tt.password, err)
			}
		})
	}
}

func TestEffectiveSSID(t *testing.T) {
	tests := []struct {
		name string
		sel  CredentialSelection
		want string
	}{
		{"nothing", CredentialSelection{}, ""},
		{"selected network", CredentialSelection{SSIDSelect: strPtr("Home"), SSID: strPtr("ignored")}, "Home"},
		{"other uses manual", CredentialSelection{SSIDSelect: strPtr(OtherValue), SSID: strPtr("Garage")}, "Garage"},
		{"no dropdown uses manual", CredentialSelection{SSID: strPtr("Cafe")}, "Cafe"},
		{"other without manual", CredentialSelection{SSIDSelect: strPtr(OtherValue)}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sel.EffectiveSSID(); got != tt.want {
				t.Errorf("EffectiveSSID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWifiForm_Layout(t *testing.T) {
	f := NewWifiForm()
	if got := f.Layout(); got != LayoutNoNetworksKnown {
		t.Errorf("empty list Layout() = %v, want NoNetworksKnown", got)
	}

	f.SetNetworks(NetworkSnapshot{Revision: 1, Networks: nets("Home")})
	if got := f.Layout(); got != LayoutDropdownChoice {
		t.Errorf("unset selection Layout() = %v, want DropdownChoice", got)
	}

	f.Select(OtherValue)
	if got := f.Layout(); got != LayoutManualChoice {
		t.Errorf("other Layout() = %v, want ManualChoice", got)
	}

	f.Select("Home")
	if got := f.Layout(); got != LayoutDropdownChoice {
		t.Errorf("Home Layout() = %v, want DropdownChoice", got)
	}
}

func TestWifiForm_Validate(t *testing.T) {
	tests := []struct {
		name       string
		form       func() *WifiForm
		wantFields []string
	}{
		{
			name:       "no networks, no name",
			form:       func() *WifiForm { return NewWifiForm() },
			wantFields: []string{FieldSSID},
		},
		{
			name: "no networks, manual name",
			form: func() *WifiForm {
				f := NewWifiForm()
				f.SetSSID("Cafe")
				return f
			},
		},
		{
			name:       "networks, nothing selected",
			form:       func() *WifiForm { return formWith("Home") },
			wantFields: []string{FieldSSIDSelect},
		},
		{
			name: "networks, selected",
			form: func() *WifiForm {
				f := formWith("Home")
				f.Select("Home")
				return f
			},
		},
		{
			name: "other without manual name",
			form: func() *WifiForm {
				f := formWith("Home")
				f.Select(OtherValue)
				return f
			},
			wantFields: []string{FieldSSID},
		},
		{
			name: "short password",
			form: func() *WifiForm {
				f := formWith("Home")
				f.Select("Home")
				f.SetPassword("abc")
				return f
			},
			wantFields: []string{FieldPassword},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.form()
			errs := f.Validate()
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("Validate() = %v, want fields %v", errs, tt.wantFields)
			}
			for i, err := range errs {
				var ve *ValidationError
				if !errors.As(err, &ve) || ve.Field != tt.wantFields[i] {
					t.Errorf("Validate()[%d] = %v, want field %s", i, err, tt.wantFields[i])
				}
			}
			if f.IsValid() != (len(tt.wantFields) == 0) {
				t.Errorf("IsValid() = %v", f.IsValid())
			}
		})
	}
}

func TestWifiForm_SetNetworksKeepsFields(t *testing.T) {
	f := formWith("Home", "Office")
	f.Select(OtherValue)
	f.SetSSID("Gar")

	if !f.SetNetworks(NetworkSnapshot{Revision: 2, Networks: nets("Home", "Office", "Attic")}) {
		t.Fatal("SetNetworks() = false for a newer snapshot")
	}
	if f.SSID() != "Gar" {
		t.Errorf("SSID() = %q, want in-progress entry kept", f.SSID())
	}
	if v, ok := f.Selected(); !ok || v != OtherValue {
		t.Errorf("Selected() = %q, %v; want other, true", v, ok)
	}

	if f.SetNetworks(NetworkSnapshot{Revision: 1, Networks: nets("Stale")}) {
		t.Error("SetNetworks() accepted an older snapshot")
	}
	if len(f.Networks()) != 3 {
		t.Errorf("Networks() = %v, want 3 networks", f.Networks())
	}

	// A selection that left the list is kept
	f.Select("Attic")
	f.SetNetworks(NetworkSnapshot{Revision: 3, Networks: nets("Home")})
	if v, _ := f.Selected(); v != "Attic" {
		t.Errorf("Selected() = %q, want Attic", v)
	}
}

func TestWifiForm_CloseDiscardsUpdates(t *testing.T) {
	f := formWith("Home")
	f.Close()
	if !f.Closed() {
		t.Error("Closed() = false after Close")
	}
	if f.SetNetworks(NetworkSnapshot{Revision: 5, Networks: nets("Late")}) {
		t.Error("SetNetworks() accepted a snapshot after Close")
	}
	if got := f.Networks(); len(got) != 1 || got[0].SSID != "Home" {
		t.Errorf("Networks() = %v, want [Home]", got)
	}
}

func TestWifiForm_SelectionOmitsHiddenFields(t *testing.T) {
	f := formWith("Home")
	f.SetSSID("typed earlier")
	f.Select("Home")

	sel := f.Selection()
	if sel.SSID != nil {
		t.Errorf("Selection().SSID = %q, want nil while hidden", *sel.SSID)
	}
	if sel.SSIDSelect == nil || *sel.SSIDSelect != "Home" {
		t.Errorf("Selection().SSIDSelect = %v, want Home", sel.SSIDSelect)
	}
	if sel.Password != nil {
		t.Error("Selection().Password set for an empty password")
	}
}

func TestWifiForm_Submit(t *testing.T) {
	t.Run("manual entry after switching", func(t *testing.T) {
		sub := &recordingSubmitter{}
		flow := NewFlow(WithSubmitter(sub), WithStartStep(StepWifiCreds))

		f := formWith("Home", "Office")
		f.Select(OtherValue)
		f.SetSSID("Garage")
		f.SetPassword("correct-horse")

		if err := f.Submit(context.Background(), flow); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		if len(sub.calls) != 1 {
			t.Fatalf("submitter called %d times, want 1", len(sub.calls))
		}
		got := sub.calls[0]
		if got.EffectiveSSID() != "Garage" {
			t.Errorf("EffectiveSSID() = %q, want Garage", got.EffectiveSSID())
		}
		if got.SSIDSelect == nil || *got.SSIDSelect != OtherValue {
			t.Errorf("SSIDSelect = %v, want other", got.SSIDSelect)
		}
		if got.EffectivePassword() != "correct-horse" {
			t.Errorf("EffectivePassword() = %q", got.EffectivePassword())
		}
		if flow.Current() != StepConnectTrackers {
			t.Errorf("Current() = %v, want connect-trackers", flow.Current())
		}
	})

	t.Run("invalid form", func(t *testing.T) {
		sub := &recordingSubmitter{}
		flow := NewFlow(WithSubmitter(sub), WithStartStep(StepWifiCreds))

		f := formWith("Home")
		f.Select("Home")
		f.SetPassword("abc")

		err := f.Submit(context.Background(), flow)
		if !errors.Is(err, ErrFormInvalid) {
			t.Errorf("Submit() error = %v, want ErrFormInvalid", err)
		}
		if !IsValidationError(err) {
			t.Errorf("Submit() error = %v, want a ValidationError inside", err)
		}
		if len(sub.calls) != 0 {
			t.Errorf("submitter called %d times, want 0", len(sub.calls))
		}
		if flow.Current() != StepWifiCreds {
			t.Errorf("Current() = %v, want wifi-creds", flow.Current())
		}
	})
}

func TestWifiForm_Skip(t *testing.T) {
	tests := []struct {
		name  string
		units []TrackingUnit
		want  Step
	}{
		{"no units", nil, StepAssignTutorial},
		{"BNO unit", []TrackingUnit{{ID: "t0", IMU: IMUBNO086}}, StepCalibrationTutorial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &recordingSubmitter{}
			flow := NewFlow(WithSubmitter(sub), WithStartStep(StepWifiCreds))
			// Invalid fields do not block skipping
			f := formWith("Home")
			f.SetPassword("abc")

			if got := f.Skip(flow, tt.units); got != tt.want {
				t.Errorf("Skip() = %v, want %v", got, tt.want)
			}
			if flow.Current() != tt.want {
				t.Errorf("Current() = %v, want %v", flow.Current(), tt.want)
			}
			if len(sub.calls) != 0 {
				t.Error("Skip() submitted credentials")
			}
		})
	}
}
