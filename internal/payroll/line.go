package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// builtinConcepts are handled structurally by ComputeLine and skipped in the
// dynamic-concept loop.
var builtinConcepts = map[string]bool{
	ConceptBaseSalary:      true,
	ConceptFamilyAllowance: true,
	ConceptStatutoryBonus:  true,
	ConceptExtraBonus9:     true,
}

// ComputeLine runs the full monthly calculation for one worker. The second
// return value is false when the worker is not yet linked in the period
// (hired after its end) and must be excluded from the run entirely.
func ComputeLine(w Worker, concepts []ConceptRule, in PeriodInput, p Params, scheduleHours decimal.Decimal) (Line, bool, error) {
	hiredThisMonth := w.HireDate.Year() == in.Year && int(w.HireDate.Month()) == in.Month
	hiredAfter := w.HireDate.Year() > in.Year ||
		(w.HireDate.Year() == in.Year && int(w.HireDate.Month()) > in.Month)
	if hiredAfter {
		return Line{}, false, nil
	}

	payableDays := in.DaysInMonth
	if hiredThisMonth {
		payableDays = in.DaysInMonth - w.HireDate.Day() + 1
		if payableDays < 0 {
			payableDays = 0
		}
	}
	if payableDays == 0 {
		return Line{}, false, nil
	}

	totalAbsences := 0
	for _, days := range in.Suspensions {
		totalAbsences += days
	}
	workedDays := payableDays - totalAbsences
	if workedDays < 0 {
		workedDays = 0
	}
	attendanceFactor := decimal.NewFromInt(int64(workedDays)).
		Div(decimal.NewFromInt(int64(payableDays)))

	dailyRate := w.BaseSalary.Div(commercialMonthDays)
	hourlyRate := dailyRate.Div(scheduleHours)

	// Mixed commercial month: every available day worked pays the full
	// nominal salary (including hire on day 1); any partial month pays
	// workedDays thirtieths.
	var computable decimal.Decimal
	if totalAbsences == 0 && (!hiredThisMonth || payableDays >= in.DaysInMonth) {
		computable = w.BaseSalary
	} else {
		computable = maxZero(dailyRate.Mul(decimal.NewFromInt(int64(workedDays))))
	}

	var observations []string
	if hiredThisMonth {
		observations = append(observations, fmt.Sprintf("hired %s", w.HireDate.Format("2006-01-02")))
	}
	if totalAbsences > 0 {
		observations = append(observations,
			fmt.Sprintf("%d unworked day(s), discount S/ %s", totalAbsences, round2(w.BaseSalary.Sub(computable))))
	}

	// Days paid even though not worked (medical leave, vacation, paid leave).
	remuneratedDays := workedDays
	for code, days := range in.Suspensions {
		if remuneratedSuspensionCodes[code] {
			remuneratedDays += days
		}
	}

	familyAllowance := decimal.Zero
	if w.HasFamilyAllowance && computable.IsPositive() && remuneratedDays > 0 {
		familyAllowance = p.MinimumWage.Mul(familyAllowanceRate)
	}

	overtime25 := in.OvertimeHours25.Mul(hourlyRate.Mul(otRate25))
	overtime35 := in.OvertimeHours35.Mul(hourlyRate.Mul(otRate35))

	tardiness := in.TardinessMinutes.Mul(hourlyRate.Div(sixty))
	if tardiness.IsPositive() {
		observations = append(observations,
			fmt.Sprintf("tardiness %s min, discount S/ %s", in.TardinessMinutes, round2(tardiness)))
	}

	totalIncome := computable.Add(familyAllowance).Add(overtime25).Add(overtime35)
	pensionBase := totalIncome
	healthBase := totalIncome
	taxBase := totalIncome

	income := []Item{
		{Kind: KindIncome, Code: CodeBaseSalary, Label: fmt.Sprintf("%s (%d days)", ConceptBaseSalary, workedDays), Amount: round2(computable)},
	}
	if familyAllowance.IsPositive() {
		income = append(income, Item{Kind: KindIncome, Code: CodeFamilyAllowance, Label: ConceptFamilyAllowance, Amount: round2(familyAllowance)})
	}
	if overtime25.IsPositive() {
		income = append(income, Item{Kind: KindIncome, Code: CodeOvertime25, Label: "HORAS EXTRAS 25%", Amount: round2(overtime25)})
	}
	if overtime35.IsPositive() {
		income = append(income, Item{Kind: KindIncome, Code: CodeOvertime35, Label: "HORAS EXTRAS 35%", Amount: round2(overtime35)})
	}

	var deductions []Item
	otherDeductions := tardiness
	if tardiness.IsPositive() {
		deductions = append(deductions, Item{Kind: KindDeduction, Code: CodeTardiness, Label: "TARDANZAS", Amount: round2(tardiness)})
	}

	// Statutory bonus plus its 9% extraordinary bonus: income-tax affected,
	// never pension or health affected.
	bonus := in.ConceptAmounts[ConceptStatutoryBonus]
	otherIncome := overtime25.Add(overtime35)
	if bonus.IsPositive() {
		extra := bonus.Mul(extraBonusRate)
		income = append(income,
			Item{Kind: KindIncome, Code: CodeStatutoryBonus, Label: ConceptStatutoryBonus, Amount: round2(bonus)},
			Item{Kind: KindIncome, Code: CodeExtraBonus9, Label: ConceptExtraBonus9, Amount: round2(extra)})
		totalIncome = totalIncome.Add(bonus).Add(extra)
		otherIncome = otherIncome.Add(bonus).Add(extra)
		taxBase = taxBase.Add(bonus).Add(extra)
	}

	// Dynamic company concepts. Proratable amounts shrink with attendance;
	// the income-tax portion lost that way is carried into the annual
	// projection, not the current month's base.
	lostTaxable := decimal.Zero
	for _, concept := range concepts {
		if builtinConcepts[concept.Name] {
			continue
		}
		nominal, present := in.ConceptAmounts[concept.Name]
		if !present || !nominal.IsPositive() {
			continue
		}
		amount := nominal
		if concept.Proratable {
			amount = nominal.Mul(attendanceFactor)
			if concept.Kind == KindIncome && concept.AffectsIncomeTax {
				lostTaxable = lostTaxable.Add(nominal.Sub(amount))
			}
		}

		switch concept.Kind {
		case KindIncome:
			income = append(income, Item{Kind: KindIncome, Code: concept.Code, Label: concept.Name, Amount: round2(amount)})
			totalIncome = totalIncome.Add(amount)
			otherIncome = otherIncome.Add(amount)
			if concept.AffectsPension {
				pensionBase = pensionBase.Add(amount)
			}
			if concept.AffectsHealth {
				healthBase = healthBase.Add(amount)
			}
			if concept.AffectsIncomeTax {
				taxBase = taxBase.Add(amount)
			}
		case KindDeduction:
			deductions = append(deductions, Item{Kind: KindDeduction, Code: concept.Code, Label: concept.Name, Amount: round2(amount)})
			otherDeductions = otherDeductions.Add(amount)
			if concept.AffectsPension {
				pensionBase = pensionBase.Sub(amount)
			}
			if concept.AffectsHealth {
				healthBase = healthBase.Sub(amount)
			}
			if concept.AffectsIncomeTax {
				taxBase = taxBase.Sub(amount)
			}
		}
	}

	pensionBase = maxZero(pensionBase)
	healthBase = maxZero(healthBase)
	taxBase = maxZero(taxBase)

	pension, err := ComputePension(pensionBase, w.PensionSystem, w.CommissionType, p)
	if err != nil {
		return Line{}, false, err
	}
	if pension.Total.IsPositive() {
		label := "APORTE ONP"
		if pension.System != SystemONP {
			label = "APORTE " + pension.System
		}
		deductions = append(deductions, Item{Kind: KindDeduction, Label: label, Amount: pension.Total})
	}

	// On a partial month the projection recovers the nominal salary and the
	// prorated concept income so the annual estimate stays realistic.
	projectionBase := taxBase
	if totalAbsences > 0 || hiredThisMonth {
		projectionBase = round2(taxBase.Add(w.BaseSalary.Sub(computable)).Add(lostTaxable))
	}
	tax := ProjectIncomeTax(TaxInput{
		Month:                 in.Month,
		MonthlyBase:           taxBase,
		ProjectionBase:        projectionBase,
		PriorIncome:           in.CarryIn.PriorIncome,
		PriorWithheld:         in.CarryIn.PriorWithheld,
		PriorEmployerWithheld: w.PriorEmployerWithheld,
	}, p)
	if tax.Withholding.IsPositive() {
		deductions = append(deductions, Item{Kind: KindDeduction, Label: "RETENCION 5TA CATEGORIA", Amount: tax.Withholding})
	}

	// Loan installments net out of pay without touching any tax base.
	for _, installment := range in.Installments {
		otherDeductions = otherDeductions.Add(installment.Amount)
		deductions = append(deductions, Item{Kind: KindDeduction, Label: installment.Label, Amount: round2(installment.Amount)})
		observations = append(observations,
			fmt.Sprintf("%s: installment %d/%d (S/ %s)", installment.Label, installment.Number, installment.Total, round2(installment.Amount)))
	}

	// Supervisor audit adjustments correct prior-period errors without
	// recomputing history. Recorded as their own line items.
	for _, adjustment := range []struct {
		label  string
		amount decimal.Decimal
	}{
		{"AJUSTE PENSION (AUDITORIA)", in.AdjustPension},
		{"AJUSTE 5TA CATEGORIA (AUDITORIA)", in.AdjustIncomeTax},
		{"AJUSTE VARIOS (AUDITORIA)", in.AdjustOther},
	} {
		if adjustment.amount.IsZero() {
			continue
		}
		deductions = append(deductions, Item{Kind: KindDeduction, Label: adjustment.label, Amount: round2(adjustment.amount)})
		otherDeductions = otherDeductions.Add(adjustment.amount)
		observations = append(observations, fmt.Sprintf("%s: S/ %s", adjustment.label, round2(adjustment.amount)))
	}

	if in.Note != "" {
		observations = append(observations, "NOTE: "+in.Note)
	}

	health := ComputeHealth(healthBase, w.HealthScheme, w.HasEPS, remuneratedDays > 0, p)

	line := Line{
		Document:           w.Document,
		Name:               w.Name,
		PensionSystem:      pension.System,
		HealthScheme:       health.Scheme,
		ComputableBase:     round2(computable),
		FamilyAllowance:    round2(familyAllowance),
		OtherIncome:        round2(otherIncome),
		TotalIncome:        round2(totalIncome),
		IncomeTax:          tax.Withholding,
		OtherDeductions:    round2(otherDeductions),
		HealthContribution: health.Contribution,
	}
	if pension.System == SystemONP {
		line.ONP = pension.Total
	} else {
		line.AFPContribution = pension.Contribution
		line.AFPInsurance = pension.Insurance
		line.AFPCommission = pension.Commission
	}
	line.NetPay = line.TotalIncome.
		Sub(line.PensionTotal()).
		Sub(line.IncomeTax).
		Sub(line.OtherDeductions)

	line.Audit = Audit{
		Document:      w.Document,
		Name:          w.Name,
		Period:        fmt.Sprintf("%02d-%d", in.Month, in.Year),
		WorkedDays:    workedDays,
		PayableDays:   payableDays,
		OrdinaryHours: int(decimal.NewFromInt(int64(workedDays)).Mul(scheduleHours).IntPart()),
		DailyRate:     round2(dailyRate),
		Suspensions:   in.Suspensions,
		PensionBase:   round2(pensionBase),
		HealthScheme:  health.Scheme,
		HealthAmount:  health.Contribution,
		Income:        income,
		Deductions:    deductions,
		Tax:           tax,
		Observations:  observations,
	}
	return line, true, nil
}
