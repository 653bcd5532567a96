package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds the knobs that rarely change: request pacing, optional
// detail-page hydration, and the vendor query codes. Defaults match the
// production scope; the YAML overlay exists for experiments.
type Tuning struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	HydrateLocations  bool    `yaml:"hydrate_locations"`

	Kakao struct {
		Part         string `yaml:"part"`
		EmployeeType string `yaml:"employee_type"`
		Company      string `yaml:"company"`
	} `yaml:"kakao"`

	Baemin struct {
		JobGroupCodes       string `yaml:"job_group_codes"`
		EmploymentTypeCodes string `yaml:"employment_type_codes"`
	} `yaml:"baemin"`

	Daangn struct {
		EmploymentType string `yaml:"employment_type"`
	} `yaml:"daangn"`

	Naver struct {
		SubJobCodes  string `yaml:"sub_job_codes"`
		EmpTypeCodes string `yaml:"emp_type_codes"`
		PageSize     int    `yaml:"page_size"`
	} `yaml:"naver"`
}

func defaultTuning() Tuning {
	var t Tuning
	t.RequestsPerSecond = 2
	t.Burst = 1
	return t
}

// OverlayTuning merges a YAML file over the defaults. A missing file is
// not an error; a broken one is.
func OverlayTuning(t *Tuning, path string) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, t)
}
