package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"planilla/internal/domain/payrollrun"
	"planilla/internal/domain/worker"
)

// afpnetHeader is the strict 18-column AFPnet declaration layout.
var afpnetHeader = []string{
	"Secuencia", "CUSPP", "Tipo Documento", "Numero Documento",
	"Apellido Paterno", "Apellido Materno", "Nombres",
	"Relacion Laboral", "Inicio Laboral (S/N)", "Fecha Inicio",
	"Cese (S/N)", "Fecha Cese", "Excepcion", "Remuneracion Asegurable",
	"Aporte Vol Emp", "Aporte Vol Trab Fin", "Aporte Vol Trab Sin Fin",
	"Tipo Trabajo",
}

// afpnetDocDNI is AFPnet's document-type code for a DNI (0=DNI, 1=CE).
const afpnetDocDNI = "0"

// BuildAFPnet renders the AFPnet declaration for the run's AFP-affiliated
// workers. ONP and unaffiliated workers are skipped; an AFP worker without a
// CUSPP blocks the export.
func BuildAFPnet(year, month int, lines []payrollrun.LineRecord, workers map[string]worker.Worker) (string, []byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(afpnetHeader); err != nil {
		return "", nil, err
	}

	seq := 0
	for _, rec := range lines {
		if !strings.HasPrefix(rec.Line.PensionSystem, "AFP") {
			continue
		}
		wk, ok := workers[rec.WorkerID]
		if !ok {
			continue
		}
		if strings.TrimSpace(wk.CUSPP) == "" {
			return "", nil, fmt.Errorf("%w: %s (%s)", ErrMissingCUSPP, wk.FullName(), wk.Document)
		}

		paternal, maternal := splitSurnames(wk.LastName)
		startedThisPeriod := "N"
		if wk.HireDate.Year() == year && int(wk.HireDate.Month()) == month {
			startedThisPeriod = "S"
		}

		seq++
		row := []string{
			strconv.Itoa(seq),
			strings.ToUpper(wk.CUSPP),
			afpnetDocDNI,
			wk.Document,
			strings.ToUpper(paternal),
			strings.ToUpper(maternal),
			strings.ToUpper(wk.FirstName),
			"S",
			startedThisPeriod,
			wk.HireDate.Format("02/01/2006"),
			"N",
			"",
			"N",
			rec.Audit.PensionBase.StringFixed(2),
			"0.00",
			"0.00",
			"0.00",
			"N",
		}
		if err := w.Write(row); err != nil {
			return "", nil, err
		}
	}
	if seq == 0 {
		return "", nil, ErrNoAFPWorkers
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, err
	}
	name := fmt.Sprintf("AFPNET_%04d%02d.csv", year, month)
	return name, buf.Bytes(), nil
}

func splitSurnames(last string) (string, string) {
	parts := strings.Fields(last)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
