package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/testhooks/changed-test-ids/internal/fileutil"
	"github.com/testhooks/changed-test-ids/internal/report"
)

const (
	configBaseName = ".changed-test-ids"
	envPrefix      = "CHANGED_TEST_IDS"

	configFlagName     = "config"
	sourcesKey         = "sources"
	specsKey           = "specs"
	commandKey         = "command"
	attributeKey       = "attribute"
	branchKey          = "branch"
	parentKey          = "parent"
	testIDsKey         = "test-ids"
	testIDsFromFileKey = "test-ids-from-file"
	unusedKey          = "unused"
	commaKey           = "comma"
	verboseKey         = "verbose"
	setGHAOutputsKey   = "set-gha-outputs"
	formatKey          = "format"
	logLevelFlagName   = "log-level"
	logFileFlagName    = "log-file"
	logLevelKey        = "log.level"
	logFileKey         = "log.file"
	excludeKey         = "exclude"
)

// flagAliases maps alternative long flag names to their canonical flag.
var flagAliases = map[string]string{
	"spec":           specsKey,
	"commands":       commandKey,
	"attributes":     attributeKey,
	"set-gha-output": setGHAOutputsKey,
	"v":              verboseKey,
}

func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if canonical, ok := flagAliases[name]; ok {
		name = canonical
	}
	return pflag.NormalizedName(name)
}

// Config is the resolved configuration of one run: flags override
// environment variables, which override the config file.
type Config struct {
	Sources         string
	Specs           string
	Commands        []string
	Attributes      []string
	Branch          string
	Parent          bool
	TestIDs         []string
	TestIDsFromFile string
	// TestIDsGiven is set when either test id source was configured, even
	// if it lists nothing.
	TestIDsGiven  bool
	Unused        bool
	Comma         bool
	Verbose       bool
	SetGHAOutputs bool
	Format        report.Format
	LogLevel      string
	LogFile       string
	Exclude       []string
}

func registerFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.SetNormalizeFunc(normalizeFlagName)

	flags.String(configFlagName, "", "config file (default ./"+configBaseName+".yaml)")
	flags.String(sourcesKey, "", "glob of markup source files declaring test ids")
	flags.String(specsKey, "", "glob of spec files querying test ids (alias --spec)")
	flags.String(commandKey, "", "comma-separated custom query commands (alias --commands)")
	flags.String(attributeKey, "", "comma-separated extra test attribute names (alias --attributes)")
	flags.String(branchKey, "", "find the source files changed against origin/<branch>")
	flags.Bool(parentKey, false, "compare against the merge-base with the branch")
	flags.String(testIDsKey, "", "comma-separated test ids to find specs for")
	flags.String(testIDsFromFileKey, "", "file with comma-separated test ids to find specs for")
	flags.Bool(unusedKey, false, "print only the given test ids not used by any spec")
	flags.Bool(commaKey, false, "print test ids as one comma-separated line")
	flags.BoolP(verboseKey, "v", false, "print the specs using each test id")
	flags.Bool(setGHAOutputsKey, false, "write GitHub Actions outputs and job summary (alias --set-gha-output)")
	flags.String(formatKey, string(report.FormatText), "output format: text|json|yaml")
	flags.String(logLevelFlagName, "", "log level: debug|info|warn|error (default warn)")
	flags.String(logFileFlagName, "", "write logs to this file instead of stderr")
}

// bindFlags wires every flag except --config to its viper key.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	keys := map[string]string{
		logLevelFlagName: logLevelKey,
		logFileFlagName:  logFileKey,
	}
	var err error
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if err != nil || flag.Name == configFlagName || flag.Name == "help" {
			return
		}
		key, ok := keys[flag.Name]
		if !ok {
			key = flag.Name
		}
		if bindErr := v.BindPFlag(key, flag); bindErr != nil {
			err = fmt.Errorf("bind flag %q: %w", flag.Name, bindErr)
		}
	})
	return err
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName(configBaseName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	v.SetDefault(formatKey, string(report.FormatText))
	v.SetDefault(excludeKey, []string{})
	return v
}

// loadConfig reads the optional config file and resolves every setting.
// A missing default config file is not an error; a missing explicit one is.
func loadConfig(cmd *cobra.Command, v *viper.Viper) (Config, error) {
	explicit, err := cmd.Flags().GetString(configFlagName)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read --%s flag: %w", configFlagName, err)
	}
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		v.SetConfigFile(explicit)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	format, err := report.ParseFormat(v.GetString(formatKey))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Sources:         strings.TrimSpace(v.GetString(sourcesKey)),
		Specs:           strings.TrimSpace(v.GetString(specsKey)),
		Commands:        listValue(v, commandKey),
		Attributes:      listValue(v, attributeKey),
		Branch:          strings.TrimSpace(v.GetString(branchKey)),
		Parent:          v.GetBool(parentKey),
		TestIDs:         listValue(v, testIDsKey),
		TestIDsFromFile: strings.TrimSpace(v.GetString(testIDsFromFileKey)),
		TestIDsGiven:    v.IsSet(testIDsKey) || v.IsSet(testIDsFromFileKey),
		Unused:          v.GetBool(unusedKey),
		Comma:           v.GetBool(commaKey),
		Verbose:         v.GetBool(verboseKey),
		SetGHAOutputs:   v.GetBool(setGHAOutputsKey),
		Format:          format,
		LogLevel:        v.GetString(logLevelKey),
		LogFile:         v.GetString(logFileKey),
		Exclude:         v.GetStringSlice(excludeKey),
	}
	return cfg, nil
}

// listValue accepts both a YAML list and a comma-separated string. Entries
// are split on commas only, so identifiers may contain spaces.
func listValue(v *viper.Viper, key string) []string {
	if raw, ok := v.Get(key).(string); ok {
		return fileutil.SplitList(raw)
	}
	var out []string
	for _, item := range v.GetStringSlice(key) {
		out = append(out, fileutil.SplitList(item)...)
	}
	return out
}

// testIDs returns the requested ids from --test-ids or, failing that, from
// the comma-separated --test-ids-from-file.
func (c Config) testIDs() ([]string, error) {
	ids := c.TestIDs
	if len(ids) == 0 && c.TestIDsFromFile != "" {
		contents, err := os.ReadFile(c.TestIDsFromFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read test ids: %w", err)
		}
		ids = fileutil.SplitList(string(contents))
	}
	if len(ids) == 0 {
		return nil, errMissingTestIDs
	}
	return ids, nil
}
