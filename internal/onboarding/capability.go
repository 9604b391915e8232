package onboarding

import "strings"

// IMUType classifies the inertial sensor a tracking unit carries
type IMUType int

const (
	IMUUnknown IMUType = iota
	IMUBNO080
	IMUBNO085
	IMUBNO086
	IMUBMI160
	IMUBMI270
	IMUICM20948
	IMULSM6DSV
	IMUMPU6050
	IMUMPU9250
)

var imuNames = map[IMUType]string{
	IMUUnknown:  "UNKNOWN",
	IMUBNO080:   "BNO080",
	IMUBNO085:   "BNO085",
	IMUBNO086:   "BNO086",
	IMUBMI160:   "BMI160",
	IMUBMI270:   "BMI270",
	IMUICM20948: "ICM20948",
	IMULSM6DSV:  "LSM6DSV",
	IMUMPU6050:  "MPU6050",
	IMUMPU9250:  "MPU9250",
}

// String returns the sensor part name (e.g. "BNO085")
func (t IMUType) String() string {
	if name, ok := imuNames[t]; ok {
		return name
	}
	return imuNames[IMUUnknown]
}

// ParseIMUType maps a part name to an IMUType. Matching is case-insensitive;
// unrecognised names map to IMUUnknown.
func ParseIMUType(name string) IMUType {
	name = strings.ToUpper(strings.TrimSpace(name))
	for t, n := range imuNames {
		if n == name {
			return t
		}
	}
	return IMUUnknown
}

// IsBNO reports whether the sensor belongs to the BNO08x family, the only
// family that goes through the calibration tutorial.
func (t IMUType) IsBNO() bool {
	switch t {
	case IMUBNO080, IMUBNO085, IMUBNO086:
		return true
	}
	return false
}

// TrackingUnit is a connected motion-sensing peripheral as reported by the hub
type TrackingUnit struct {
	ID   string
	Name string
	IMU  IMUType
}

// HasCalibratableIMU returns true iff at least one unit carries a BNO08x
// sensor. An empty list yields false.
func HasCalibratableIMU(units []TrackingUnit) bool {
	for _, u := range units {
		if u.IMU.IsBNO() {
			return true
		}
	}
	return false
}

// SkipDestination picks the step that follows the Wifi Credentials step:
// the calibration tutorial when a BNO08x unit is connected, the assignment
// tutorial otherwise (including when no units are connected).
func SkipDestination(units []TrackingUnit) Step {
	if HasCalibratableIMU(units) {
		return StepCalibrationTutorial
	}
	return StepAssignTutorial
}
