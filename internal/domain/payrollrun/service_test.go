package payrollrun

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"planilla/internal/domain/period"
	"planilla/internal/domain/worker"
)

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func TestDueWorkersExcludesFutureHires(t *testing.T) {
	april30 := date(2025, 4, 30)
	workers := []worker.Worker{
		{ID: "w1", FirstName: "ROSA", LastName: "QUISPE", HireDate: date(2023, 3, 1)},
		{ID: "w2", FirstName: "JUAN", LastName: "ROJAS", HireDate: date(2025, 5, 1)},
		{ID: "w3", FirstName: "ANA", LastName: "TORRES", HireDate: april30},
	}

	due := dueWorkers(workers, april30)

	assert.Len(t, due, 2)
	assert.Equal(t, "w1", due[0].ID)
	assert.Equal(t, "w3", due[1].ID, "hired on the period's last day still belongs to it")
}

// A future hire with no saved variables must not block the run: only workers
// actually in the period demand a row.
func TestMissingVariablesIgnoresFutureHires(t *testing.T) {
	april30 := date(2025, 4, 30)
	workers := []worker.Worker{
		{ID: "w1", FirstName: "ROSA", LastName: "QUISPE", HireDate: date(2023, 3, 1)},
		{ID: "w2", FirstName: "JUAN", LastName: "ROJAS", HireDate: date(2025, 5, 15)},
	}
	vars := map[string]period.Variables{
		"w1": {WorkerID: "w1"},
	}

	missing := missingWorkerVariables(dueWorkers(workers, april30), vars)

	assert.Empty(t, missing)
}

func TestMissingVariablesNamesEveryDueWorker(t *testing.T) {
	workers := []worker.Worker{
		{ID: "w1", FirstName: "ROSA", LastName: "QUISPE", HireDate: date(2023, 3, 1)},
		{ID: "w2", FirstName: "JUAN", LastName: "ROJAS", HireDate: date(2024, 1, 1)},
	}
	vars := map[string]period.Variables{
		"w2": {WorkerID: "w2"},
	}

	missing := missingWorkerVariables(workers, vars)

	assert.Equal(t, []string{"QUISPE, ROSA"}, missing)
}

// A due contractor without saved variables blocks the receipt computation
// instead of silently valuing a full month.
func TestMissingContractorVariablesBlocks(t *testing.T) {
	april30 := date(2025, 4, 30)
	contractors := []worker.Contractor{
		{ID: "c1", FirstName: "LUIS", LastName: "MENDOZA", HireDate: date(2024, 6, 1)},
		{ID: "c2", FirstName: "EVA", LastName: "CASTRO", HireDate: date(2025, 6, 1)},
	}

	due := dueContractors(contractors, april30)
	missing := missingContractorVariables(due, map[string]period.ContractorVariables{})

	assert.Equal(t, []string{"MENDOZA, LUIS"}, missing, "future hires excluded, due ones named")
}
