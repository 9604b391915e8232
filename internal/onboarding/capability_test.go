package onboarding

import "testing"

func TestParseIMUType(t *testing.T) {
	tests := []struct {
		name string
		want IMUType
	}{
		{"BNO085", IMUBNO085},
		{"bno080", IMUBNO080},
		{" BMI160 ", IMUBMI160},
		{"ICM20948", IMUICM20948},
		{"", IMUUnknown},
		{"BNO999", IMUUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseIMUType(tt.name); got != tt.want {
				t.Errorf("ParseIMUType(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestIMUType_IsBNO(t *testing.T) {
	bno := map[IMUType]bool{IMUBNO080: true, IMUBNO085: true, IMUBNO086: true}
	for typ := range imuNames {
		if got := typ.IsBNO(); got != bno[typ] {
			t.Errorf("%v.IsBNO() = %v, want %v", typ, got, bno[typ])
		}
	}
	if got := IMUType(100).String(); got != "UNKNOWN" {
		t.Errorf("IMUType(100).String() = %v, want UNKNOWN", got)
	}
}

func TestSkipDestination(t *testing.T) {
	tests := []struct {
		name  string
		units []TrackingUnit
		want  Step
	}{
		{
			name:  "no units",
			units: nil,
			want:  StepAssignTutorial,
		},
		{
			name:  "one BNO085",
			units: []TrackingUnit{{ID: "t0", IMU: IMUBNO085}},
			want:  StepCalibrationTutorial,
		},
		{
			name:  "only other sensors",
			units: []TrackingUnit{{ID: "t0", IMU: IMUBMI160}, {ID: "t1", IMU: IMUUnknown}},
			want:  StepAssignTutorial,
		},
		{
			name:  "mixed",
			units: []TrackingUnit{{ID: "t0", IMU: IMUMPU6050}, {ID: "t1", IMU: IMUBNO080}},
			want:  StepCalibrationTutorial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SkipDestination(tt.units); got != tt.want {
				t.Errorf("SkipDestination() = %v, want %v", got, tt.want)
			}
			if got := HasCalibratableIMU(tt.units); got != (tt.want == StepCalibrationTutorial) {
				t.Errorf("HasCalibratableIMU() = %v", got)
			}
		})
	}
}
