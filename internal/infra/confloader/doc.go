// Package confloader loads FitPlan configuration with koanf.
//
// Sources, lowest priority first: the defaults already present in the
// target struct, a YAML file, FITPLAN_* environment variables and a flag
// map. Watcher reports edits to the config file so long-running
// processes can reload.
package confloader
