// internal/vp/default.go
package vp

// Built-in VP table used when no schema is configured.
// Address blocks: 0x10xx system, 0x11xx light, 0x12xx water,
// 0x13xx fan, 0x14xx network.

func str(addr uint16, name string, width uint8, def string) Descriptor {
	return Descriptor{Address: addr, Name: name, Type: Str, Width: width, Default: Text(def)}
}

func u8(addr uint16, name string, def uint16) Descriptor {
	return Descriptor{Address: addr, Name: name, Type: UInt8, Width: 1, Default: Uint(UInt8, def)}
}

var defaultTable = []Descriptor{
	str(0x1000, "TIME", 6, "12:34"),
	str(0x1010, "HOSTNAME", 6, "NGS001"),
	u8(0x1020, "PLANT_ID", 3),
	u8(0x1030, "TOTAL_CYCLE", 15),
	u8(0x1040, "GROWTH_DAY", 6),
	u8(0x1050, "GROWTH_BAR", 10),
	str(0x1060, "GROWTH_STR", 6, "12/15"),
	str(0x1070, "FW_VERSION", 6, "v1.0.0"),
	str(0x1080, "HW_VERSION", 6, "v1.0.0"),

	u8(0x1100, "LIGHT_STATE", 1),
	u8(0x1110, "LIGHT_AUTO", 1),
	u8(0x1120, "LIGHT_ON_HR", 8),
	u8(0x1130, "LIGHT_ON_MIN", 0),
	u8(0x1140, "LIGHT_OFF_HR", 20),
	u8(0x1150, "LIGHT_OFF_MIN", 0),

	u8(0x1200, "WATER_STATE", 0),
	u8(0x1210, "WATER_AUTO", 1),
	u8(0x1220, "WATER_ON_HR", 8),
	u8(0x1230, "WATER_ON_MIN", 0),
	u8(0x1240, "WATER_OFF_HR", 20),
	u8(0x1250, "WATER_OFF_MIN", 0),
	u8(0x1260, "WATER_INTERVAL_HR", 4),
	u8(0x1270, "WATER_DURATION_SEC", 10),

	u8(0x1300, "FAN_STATE", 0),
	u8(0x1310, "FAN_AUTO", 1),
	u8(0x1320, "FAN_ON_HR", 9),
	u8(0x1330, "FAN_ON_MIN", 0),
	u8(0x1340, "FAN_OFF_HR", 18),
	u8(0x1350, "FAN_OFF_MIN", 0),

	str(0x1400, "WIFI_STATE", 16, "Connected"),
	str(0x1410, "WIFI_SSID", 32, "NGS"),
	str(0x1420, "WIFI_PASSWORD", 32, ""),
	str(0x1430, "IP_ADDRESS", 16, "- - - -"),
	str(0x1440, "SIGNAL_STRENGTH", 16, "Strong"),
	u8(0x1450, "CONFIG_NETWORK", 0),
}

// DefaultSchema returns the built-in table.
func DefaultSchema() *Schema {
	return MustSchema(defaultTable)
}
