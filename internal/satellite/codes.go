package satellite

import "fmt"

var maskCodes = map[int16]string{
	-99: "missing",
	0:   "unprocessed_pixel",
	10:  "good_fire_pixel",
	11:  "saturated_fire_pixel",
	12:  "cloud_contaminated_fire_pixel",
	13:  "high_probability_fire_pixel",
	14:  "medium_probability_fire_pixel",
	15:  "low_probability_fire_pixel",
	30:  "temporally_filtered_good_fire_pixel",
	31:  "temporally_filtered_saturated_fire_pixel",
	32:  "temporally_filtered_cloud_contaminated_fire_pixel",
	33:  "temporally_filtered_high_probability_fire_pixel",
	34:  "temporally_filtered_medium_probability_fire_pixel",
	35:  "temporally_filtered_low_probability_fire_pixel",
	40:  "off_earth_pixel",
	50:  "LZA_block_out_zone",
	60:  "SZA_or_glint_angle_block_out_zone",
	100: "processed_no_fire_pixel",
}

var dataQualityCodes = map[int16]string{
	0: "good_quality_fire_pixel",
	1: "good_quality_fire_free_land_pixel",
	2: "invalid_due_to_opaque_cloud_pixel",
	3: "invalid_due_to_surface_type_or_sunglint_or_LZA_threshold_exceeded_or_off_earth_or_missing_input_data",
	4: "invalid_due_to_bad_input_data",
	5: "invalid_due_to_algorithm_failure",
}

// MaskCodeDescription describes a fire mask code from the source product
// file. Codes without a known description are formatted numerically.
func MaskCodeDescription(code int16) string {
	if s, ok := maskCodes[code]; ok {
		return s
	}
	return fmt.Sprintf("unknown_mask_code_%d", code)
}

// DataQualityDescription describes a data quality flag from the source
// product file.
func DataQualityDescription(code int16) string {
	if s, ok := dataQualityCodes[code]; ok {
		return s
	}
	return fmt.Sprintf("unknown_data_quality_flag_%d", code)
}
