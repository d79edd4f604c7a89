package festival

import "slices"

// regionStates maps region codes to the Indian states they cover.
var regionStates = map[string][]string{
	RegionAll: {"All States"},
	"TN":      {"Tamil Nadu"},
	"KL":      {"Kerala"},
	"KA":      {"Karnataka"},
	"AP":      {"Andhra Pradesh", "Telangana"},
	"TS":      {"Telangana"},
	"MH":      {"Maharashtra"},
	"GJ":      {"Gujarat"},
	"RJ":      {"Rajasthan"},
	"UP":      {"Uttar Pradesh"},
	"MP":      {"Madhya Pradesh"},
	"WB":      {"West Bengal"},
	"OR":      {"Odisha"},
	"AS":      {"Assam"},
	"PB":      {"Punjab"},
	"HR":      {"Haryana"},
	"DL":      {"Delhi"},
	"JK":      {"Jammu and Kashmir"},
	"HP":      {"Himachal Pradesh"},
	"UK":      {"Uttarakhand"},
	"BR":      {"Bihar"},
	"JH":      {"Jharkhand"},
	"CT":      {"Chhattisgarh"},
	"GA":      {"Goa"},
	"MN":      {"Manipur"},
	"MZ":      {"Mizoram"},
	"NL":      {"Nagaland"},
	"TR":      {"Tripura"},
	"SK":      {"Sikkim"},
	"AR":      {"Arunachal Pradesh"},
	"ML":      {"Meghalaya"},
}

// StatesForRegion returns the states a region code covers. Unknown codes
// map to themselves.
func StatesForRegion(region string) []string {
	if states, ok := regionStates[region]; ok {
		return slices.Clone(states)
	}
	return []string{region}
}

// KnownRegion reports whether region is a known code.
func KnownRegion(region string) bool {
	_, ok := regionStates[region]
	return ok
}
