package hptime

import "time"

// ToTime converts an HPT tick count into a UTC time.Time.
func ToTime(t HPT) time.Time {
	ticks := int64(t)
	sec := ticks / Modulus
	rem := ticks % Modulus
	if rem < 0 {
		rem += Modulus
		sec--
	}
	return time.Unix(sec, rem*(1000000000/Modulus)).UTC()
}

// FromTime converts a time.Time into HPT ticks.
func FromTime(tm time.Time) HPT {
	tm = tm.UTC()
	sec := tm.Unix()
	nsec := int64(tm.Nanosecond())
	return HPT(sec*Modulus + nsec/(1000000000/Modulus))
}
