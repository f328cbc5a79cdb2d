package unitgen

import (
	"strings"
	"testing"
)

func defaultTestConfig() Config {
	cfg := Config{}
	cfg.ApplyDefaults()
	return cfg
}

func TestGenerateUnitFile_Sections(t *testing.T) {
	output := GenerateUnitFile(defaultTestConfig(), "stream701", "/var/lib/stream-quality/stream701_prod.csv")

	for _, section := range []string{"[Unit]", "[Service]", "[Install]"} {
		if !strings.Contains(output, section) {
			t.Errorf("output missing %s section", section)
		}
	}
	if !strings.Contains(output, "Type=simple") {
		t.Error("output missing Type=simple")
	}
	if !strings.Contains(output, "Restart=always") {
		t.Error("output missing Restart=always")
	}
	if !strings.Contains(output, "User=root") {
		t.Error("output missing User=root")
	}
	if !strings.Contains(output, "Environment=PYTHONUNBUFFERED=1") {
		t.Error("output missing unbuffered environment variable")
	}
}

func TestGenerateUnitFile_BindsToBaseUnit(t *testing.T) {
	output := GenerateUnitFile(defaultTestConfig(), "stream701", "/var/lib/stream-quality/stream701_prod.csv")

	base := "checking_stream_quality_stream701.service"
	if !strings.Contains(output, "After="+base) {
		t.Errorf("output missing After=%s, got:\n%s", base, output)
	}
	if !strings.Contains(output, "BindsTo="+base) {
		t.Errorf("output missing BindsTo=%s, got:\n%s", base, output)
	}
	if !strings.Contains(output, "WantedBy="+base) {
		t.Errorf("output missing WantedBy=%s, got:\n%s", base, output)
	}
}

func TestGenerateUnitFile_ExecStart(t *testing.T) {
	output := GenerateUnitFile(defaultTestConfig(), "stream701", "/var/lib/stream-quality/stream701_prod.csv")

	want := `ExecStart=/usr/local/bin/qwire tail "/var/lib/stream-quality/stream701_prod.csv" "/var/lib/stream-quality/stream701_prod.jsonl" --log-file /var/log/csv-parser/csv_parser_stream701.log`
	if !strings.Contains(output, want) {
		t.Errorf("output missing start command %q, got:\n%s", want, output)
	}
}

func TestGenerateUnitFile_LegacyWorkerCommand(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.ExecPath = "/usr/bin/python3"
	cfg.WorkerPath = "/opt/stream-quality/csv_parser_service.py"

	output := GenerateUnitFile(cfg, "stream9", "/var/lib/stream-quality/stream9_prod.csv")
	if !strings.Contains(output, "ExecStart=/usr/bin/python3 /opt/stream-quality/csv_parser_service.py ") {
		t.Errorf("output missing legacy worker command, got:\n%s", output)
	}
}

func TestGenerateUnitFile_DescriptionEmbedsInstanceID(t *testing.T) {
	output := GenerateUnitFile(defaultTestConfig(), "stream701", "/var/lib/stream-quality/stream701_prod.csv")
	if !strings.Contains(output, "Description=CSV to JSONL parser for stream stream701") {
		t.Errorf("output missing description with instance id, got:\n%s", output)
	}
}

func TestGenerateUnitFile_Deterministic(t *testing.T) {
	cfg := defaultTestConfig()
	a := GenerateUnitFile(cfg, "stream701", "/d/stream701_prod.csv")
	b := GenerateUnitFile(cfg, "stream701", "/d/stream701_prod.csv")
	if a != b {
		t.Error("rendering the same instance twice produced different output")
	}
}
