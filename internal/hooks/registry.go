package hooks

import "sort"

// Registry returns every hook keyed by name. threshold, when positive,
// overrides the line threshold of the large-file hooks.
func Registry(threshold int) map[string]Hook {
	all := []Hook{
		LargeFileGuard(threshold),
		LargeFileAwareness(threshold),
		PromptFlagAppender,
		SerenaAwareness,
		GitSafetyCheck,
		GitBranchProtection,
		ChangelogReminder,
		DocUpdateCheck(nil),
		ReleaseCheck,
		ReleaseReminder,
		RulesReminder,
		EnvironmentAwareness,
		PythonUVEnforcer,
		CommitMessageFilter,
	}
	m := make(map[string]Hook, len(all))
	for _, h := range all {
		m[h.Name] = h
	}
	return m
}

// Names lists the registered hook names, sorted.
func Names() []string {
	reg := Registry(0)
	names := make([]string, 0, len(reg))
	for n := range reg {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
