package onboarding

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/muurk/trackersetup/internal/logging"
)

// MinPasswordBytes is the minimum encoded length of a non-empty password.
// WPA passphrases are measured in bytes, so multi-byte characters count by
// their UTF-8 size.
const MinPasswordBytes = 8

// CredentialSelection is what the Wifi Credentials step hands to the flow.
// Nil fields are absent.
type CredentialSelection struct {
	SSIDSelect *string
	SSID       *string
	Password   *string
}

// EffectiveSSID resolves which field names the network: the manual SSID when
// the selection is absent or the manual-entry sentinel, the selection otherwise.
func (c CredentialSelection) EffectiveSSID() string {
	if c.SSIDSelect == nil || *c.SSIDSelect == OtherValue {
		if c.SSID == nil {
			return ""
		}
		return *c.SSID
	}
	return *c.SSIDSelect
}

// EffectivePassword returns the password, or "" when absent
func (c CredentialSelection) EffectivePassword() string {
	if c.Password == nil {
		return ""
	}
	return *c.Password
}

// FieldLayout is which SSID fields the step shows
type FieldLayout int

const (
	// LayoutNoNetworksKnown shows only the manual SSID field
	LayoutNoNetworksKnown FieldLayout = iota
	// LayoutDropdownChoice shows only the dropdown
	LayoutDropdownChoice
	// LayoutManualChoice shows the dropdown and the manual SSID field
	LayoutManualChoice
)

// String returns the layout name
func (l FieldLayout) String() string {
	switch l {
	case LayoutNoNetworksKnown:
		return "NoNetworksKnown"
	case LayoutDropdownChoice:
		return "NetworksKnown_DropdownChoice"
	case LayoutManualChoice:
		return "NetworksKnown_ManualChoice"
	default:
		return fmt.Sprintf("FieldLayout(%d)", int(l))
	}
}

// ShowDropdown reports whether the network dropdown is visible
func (l FieldLayout) ShowDropdown() bool {
	return l != LayoutNoNetworksKnown
}

// ShowManualSSID reports whether the manual SSID field is visible
func (l FieldLayout) ShowManualSSID() bool {
	return l != LayoutDropdownChoice
}

// ComputeLayout derives the field layout from the two inputs it depends on
func ComputeLayout(listEmpty, selectionIsOther bool) FieldLayout {
	switch {
	case listEmpty:
		return LayoutNoNetworksKnown
	case selectionIsOther:
		return LayoutManualChoice
	default:
		return LayoutDropdownChoice
	}
}

// ValidatePassword checks an optional password: empty is fine, otherwise it
// must encode to at least MinPasswordBytes bytes.
func ValidatePassword(password string) error {
	if password == "" {
		return nil
	}
	// len counts UTF-8 bytes, not runes
	if len(password) < MinPasswordBytes {
		return NewValidationError(FieldPassword,
			fmt.Sprintf("password too short (min %d bytes): %d bytes", MinPasswordBytes, len(password)))
	}
	return nil
}

// WifiForm is the field state of the Wifi Credentials step
type WifiForm struct {
	selection    string
	hasSelection bool
	ssid         string
	password     string

	snapshot NetworkSnapshot
	cache    OptionCache
	closed   bool
}

// NewWifiForm creates an empty form with no discovered networks
func NewWifiForm() *WifiForm {
	return &WifiForm{}
}

// SetNetworks replaces the discovered network list. Field values, including
// in-progress manual entry, are left untouched. Snapshots older than the one
// already applied, and any snapshot arriving after Close, are discarded.
func (f *WifiForm) SetNetworks(snap NetworkSnapshot) bool {
	if f.closed {
		logging.Debug("Discarding network update after teardown",
			zap.Uint64("revision", snap.Revision),
		)
		return false
	}
	if snap.Revision != 0 && snap.Revision < f.snapshot.Revision {
		return false
	}
	f.snapshot = snap
	return true
}

// Networks returns the discovered networks currently applied
func (f *WifiForm) Networks() []WirelessNetwork {
	return f.snapshot.Networks
}

// Close tears the form down; subsequent network updates are ignored
func (f *WifiForm) Close() {
	f.closed = true
}

// Closed reports whether the form has been torn down
func (f *WifiForm) Closed() bool {
	return f.closed
}

// Select sets the dropdown value (an SSID or OtherValue)
func (f *WifiForm) Select(value string) {
	f.selection = value
	f.hasSelection = true
}

// Selected returns the dropdown value and whether one is set
func (f *WifiForm) Selected() (string, bool) {
	return f.selection, f.hasSelection
}

// SetSSID sets the manual network name
func (f *WifiForm) SetSSID(ssid string) {
	f.ssid = ssid
}

// SSID returns the manual network name
func (f *WifiForm) SSID() string {
	return f.ssid
}

// SetPassword sets the password
func (f *WifiForm) SetPassword(password string) {
	f.password = password
}

// Password returns the password
func (f *WifiForm) Password() string {
	return f.password
}

// Layout evaluates which fields are visible from the live network list and
// the live dropdown value. An unset dropdown keeps the manual field hidden.
func (f *WifiForm) Layout() FieldLayout {
	isOther := f.hasSelection && f.selection == OtherValue
	return ComputeLayout(len(f.snapshot.Networks) == 0, isOther)
}

// Options returns the dropdown options for the current network list
func (f *WifiForm) Options() []Option {
	return f.cache.Options(f.snapshot.Networks)
}

// Validate returns every rule the current field state breaks
func (f *WifiForm) Validate() []error {
	var errs []error
	layout := f.Layout()

	if layout.ShowDropdown() && (!f.hasSelection || f.selection == "") {
		errs = append(errs, NewValidationError(FieldSSIDSelect, "a network must be selected"))
	}
	if layout.ShowManualSSID() && f.ssid == "" {
		errs = append(errs, NewValidationError(FieldSSID, "network name cannot be empty"))
	}
	if err := ValidatePassword(f.password); err != nil {
		errs = append(errs, err)
	}
	return errs
}

// IsValid reports whether submit may be enabled
func (f *WifiForm) IsValid() bool {
	return len(f.Validate()) == 0
}

// Selection assembles the credential selection from the visible fields.
// Hidden fields are reported as absent.
func (f *WifiForm) Selection() CredentialSelection {
	var sel CredentialSelection
	layout := f.Layout()

	if layout.ShowDropdown() && f.hasSelection {
		v := f.selection
		sel.SSIDSelect = &v
	}
	if layout.ShowManualSSID() && f.ssid != "" {
		v := f.ssid
		sel.SSID = &v
	}
	if f.password != "" {
		v := f.password
		sel.Password = &v
	}
	return sel
}

// Submit validates the form and hands the selection to the flow, which
// moves on to StepConnectTrackers when the hub accepts it.
func (f *WifiForm) Submit(ctx context.Context, flow *Flow) error {
	if errs := f.Validate(); len(errs) > 0 {
		return &invalidFormError{errs: errs}
	}
	sel := f.Selection()
	logging.Info("Submitting wifi credentials",
		zap.String("ssid", sel.EffectiveSSID()),
		zap.Bool("has_password", sel.Password != nil),
	)
	return flow.Advance(ctx, sel, StepConnectTrackers)
}

// Skip bypasses validation and navigates straight to the
// capability-dependent destination. No credentials are submitted.
func (f *WifiForm) Skip(flow *Flow, units []TrackingUnit) Step {
	dest := SkipDestination(units)
	_ = flow.Navigate(dest) // dest is always a declared step
	return dest
}
