package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
	"strings"

	"planilla/internal/domain/payrollrun"
	"planilla/internal/payroll"
)

// sunatDocDNI is the SUNAT document-type code for a DNI. Workers are
// registered with their 8-digit DNI, so every line carries it.
const sunatDocDNI = "01"

// BuildPLAME renders the three PLAME interface files (.REM remunerations,
// .JOR workday, .SNL suspensions) and zips them under the official name
// 0601YYYYMM<RUC>.zip. Income concepts that were paid without a table-22
// code block the export.
func BuildPLAME(ruc string, year, month int, lines []payrollrun.LineRecord) (string, []byte, error) {
	if err := checkConceptCodes(lines); err != nil {
		return "", nil, err
	}

	var rem, jor, snl []string
	for _, rec := range lines {
		doc := rec.Audit.Document

		for _, item := range rec.Audit.Income {
			if !item.Amount.IsPositive() {
				continue
			}
			rem = append(rem, fmt.Sprintf("%s|%s|%s|%s|%s|",
				sunatDocDNI, doc, item.Code,
				item.Amount.StringFixed(2), item.Amount.StringFixed(2)))
		}
		// Of the deductions only tardiness is declared, as its own concept.
		for _, item := range rec.Audit.Deductions {
			if item.Code == payroll.CodeTardiness && item.Amount.IsPositive() {
				rem = append(rem, fmt.Sprintf("%s|%s|%s|%s|%s|",
					sunatDocDNI, doc, item.Code,
					item.Amount.StringFixed(2), item.Amount.StringFixed(2)))
			}
		}

		jor = append(jor, fmt.Sprintf("%s|%s|%d|0|0|0|", sunatDocDNI, doc, rec.Audit.OrdinaryHours))

		codes := make([]string, 0, len(rec.Audit.Suspensions))
		for code := range rec.Audit.Suspensions {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			if days := rec.Audit.Suspensions[code]; days > 0 {
				snl = append(snl, fmt.Sprintf("%s|%s|%s|%d|", sunatDocDNI, doc, code, days))
			}
		}
	}

	base := fmt.Sprintf("0601%04d%02d%011s", year, month, ruc)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, entry := range []struct {
		name  string
		lines []string
	}{
		{base + ".REM", rem},
		{base + ".JOR", jor},
		{base + ".SNL", snl},
	} {
		w, err := zw.Create(entry.name)
		if err != nil {
			return "", nil, err
		}
		if _, err := w.Write([]byte(strings.Join(entry.lines, "\n"))); err != nil {
			return "", nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return "", nil, err
	}
	return base + ".zip", buf.Bytes(), nil
}

func checkConceptCodes(lines []payrollrun.LineRecord) error {
	missing := make(map[string]bool)
	for _, rec := range lines {
		for _, item := range rec.Audit.Income {
			if item.Amount.IsPositive() && item.Code == "" {
				missing[item.Label] = true
			}
		}
	}
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, 0, len(missing))
	for name := range missing {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Errorf("%w: %s", ErrMissingConceptCode, strings.Join(names, ", "))
}
