package export

import (
	"bytes"
	"fmt"

	"planilla/internal/domain/payrollrun"
	"planilla/internal/domain/worker"
)

// BuildBankTransfer renders the treasury upload file: one pipe-delimited
// line per worker with bank, account and the net pay to deposit. Workers
// without account data are listed with an empty account so treasury can pay
// them by other means.
func BuildBankTransfer(year, month int, lines []payrollrun.LineRecord, workers map[string]worker.Worker) (string, []byte, error) {
	var buf bytes.Buffer
	withAccount := 0
	for _, rec := range lines {
		wk := workers[rec.WorkerID]
		if wk.BankAccount != "" {
			withAccount++
		}
		fmt.Fprintf(&buf, "%s|%s|%s|%s|%s\n",
			wk.BankName, wk.BankAccount, rec.Line.Document, rec.Line.Name,
			rec.Line.NetPay.StringFixed(2))
	}
	if withAccount == 0 {
		return "", nil, ErrNoBankAccounts
	}
	name := fmt.Sprintf("ABONOS_%04d%02d.txt", year, month)
	return name, buf.Bytes(), nil
}
