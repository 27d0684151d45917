package report

// ComputeSummary derives severity totals and the worst verdict across files.
func ComputeSummary(files []FileReport) Summary {
	s := Summary{Files: len(files), Verdict: VerdictClean}

	for _, f := range files {
		if f.Verdict.Worse(s.Verdict) {
			s.Verdict = f.Verdict
		}
		if f.Report == nil {
			continue
		}
		if len(f.Report.Diagnostics) > 0 {
			s.FilesWithIssues++
		}
		for _, d := range f.Report.Diagnostics {
			s.Diagnostics++
			switch d.Severity {
			case SeverityError:
				s.ErrorCount++
			case SeverityWarning:
				s.WarningCount++
			case SeverityHint:
				s.HintCount++
			case SeverityInformation:
				s.InformationCount++
			}
		}
	}

	return s
}
