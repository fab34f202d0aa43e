// Package register implements the Register Interpreter (spec §4.4): given
// a vendor/version selector and the HDLC frame type, it pairs OBIS
// identifiers with readings, applies scaler/unit metadata, and produces a
// flat keyed map of measurements.
package register

import "fmt"

// Vendor selects a register dictionary (spec §3, §6 "vendor-map").
type Vendor string

const (
	AidonV0001    Vendor = "AIDON_V0001"
	KamstrupV0001 Vendor = "Kamstrup_V0001"
	KFM001        Vendor = "KFM_001"
)

// Entry is one dictionary row: canonical key, human description, default
// unit and default scale factor, used when a register has no attached
// scaler-unit pair (spec §4.4 step 4).
type Entry struct {
	Key           string
	Description   string
	DefaultUnit   string
	DefaultFactor float64
}

// Dictionary maps an OBIS code string to its canonical entry.
type Dictionary map[string]Entry

// common holds the canonical Norwegian HAN register set, shared across
// the three vendor wire encodings: OBIS identifiers are standardised by
// IEC 62056-6-1 even though AIDON, Kamstrup and KFM meters package the
// readings differently on the wire (spec §1, "three distinct vendor
// schema shapes that package the same logical measurements differently").
var common = Dictionary{
	"1-1:0.2.129.255": {Key: "obis_version", Description: "OBIS list version identifier", DefaultUnit: "", DefaultFactor: 1},
	"0-0:96.1.0.255":  {Key: "meter_id", Description: "Meter serial number (GIAI)", DefaultUnit: "", DefaultFactor: 1},
	"0-0:96.1.1.255":  {Key: "meter_type", Description: "Meter type designation", DefaultUnit: "", DefaultFactor: 1},
	"0-0:1.0.0.255":   {Key: "meter_clock", Description: "Meter clock", DefaultUnit: "", DefaultFactor: 1},

	"1-0:1.7.0.255": {Key: "power_active_import", Description: "Active power+ (Q1+Q4)", DefaultUnit: "W", DefaultFactor: 1},
	"1-0:2.7.0.255": {Key: "power_active_export", Description: "Active power- (Q2+Q3)", DefaultUnit: "W", DefaultFactor: 1},
	"1-0:3.7.0.255": {Key: "power_reactive_import", Description: "Reactive power+ (Q1+Q2)", DefaultUnit: "VAr", DefaultFactor: 1},
	"1-0:4.7.0.255": {Key: "power_reactive_export", Description: "Reactive power- (Q3+Q4)", DefaultUnit: "VAr", DefaultFactor: 1},

	"1-0:31.7.0.255": {Key: "current_l1", Description: "Current phase L1", DefaultUnit: "A", DefaultFactor: 1},
	"1-0:51.7.0.255": {Key: "current_l2", Description: "Current phase L2", DefaultUnit: "A", DefaultFactor: 1},
	"1-0:71.7.0.255": {Key: "current_l3", Description: "Current phase L3", DefaultUnit: "A", DefaultFactor: 1},

	"1-0:32.7.0.255": {Key: "voltage_l1", Description: "Phase voltage L1", DefaultUnit: "V", DefaultFactor: 1},
	"1-0:52.7.0.255": {Key: "voltage_l2", Description: "Phase voltage L2", DefaultUnit: "V", DefaultFactor: 1},
	"1-0:72.7.0.255": {Key: "voltage_l3", Description: "Phase voltage L3", DefaultUnit: "V", DefaultFactor: 1},

	"1-0:1.8.0.255": {Key: "energy_active_import_total", Description: "Cumulative active energy import", DefaultUnit: "Wh", DefaultFactor: 1},
	"1-0:2.8.0.255": {Key: "energy_active_export_total", Description: "Cumulative active energy export", DefaultUnit: "Wh", DefaultFactor: 1},
	"1-0:3.8.0.255": {Key: "energy_reactive_import_total", Description: "Cumulative reactive energy import", DefaultUnit: "VArh", DefaultFactor: 1},
	"1-0:4.8.0.255": {Key: "energy_reactive_export_total", Description: "Cumulative reactive energy export", DefaultUnit: "VArh", DefaultFactor: 1},
}

// MeterClockOBIS is the OBIS code of the meter-clock register, the one
// register whose raw octet-string value the interpreter always renders
// through the clock decoder (spec §4.4 step 2).
const MeterClockOBIS = "0-0:1.0.0.255"

// Lookup returns the dictionary for the given vendor/version selector, or
// a plain error if vendor is not recognised; config.Parse wraps that error
// as a decoerr.CodeUnsupportedVendor error.
func Lookup(vendor Vendor) (Dictionary, error) {
	switch vendor {
	case AidonV0001, KamstrupV0001, KFM001:
		return common, nil
	default:
		return nil, fmt.Errorf("unsupported vendor/version selector: %q", vendor)
	}
}
