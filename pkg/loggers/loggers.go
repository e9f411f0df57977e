package loggers

import (
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/pkg/errors"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"

	"github.com/axiomesh/axiom-vault/pkg/repo"
)

const (
	App            = "app"
	Executor       = "executor"
	Storage        = "storage"
	SystemContract = "system_contract"
	Vault          = "vault"
)

var w = &LoggerWrapper{
	loggers: map[string]*logrus.Entry{
		App:            newWithModule(logrus.New(), App),
		Executor:       newWithModule(logrus.New(), Executor),
		Storage:        newWithModule(logrus.New(), Storage),
		SystemContract: newWithModule(logrus.New(), SystemContract),
		Vault:          newWithModule(logrus.New(), Vault),
	},
}

type LoggerWrapper struct {
	loggers map[string]*logrus.Entry
}

func newWithModule(l *logrus.Logger, module string) *logrus.Entry {
	return l.WithField("module", module)
}

// Initialize rebuilds every module logger from the log config, persist enables rotated log files under the repo
func Initialize(rep *repo.Repo, persist bool) error {
	config := rep.Config.Log

	var hook logrus.Hook
	if persist || config.Persist {
		fileHook, err := newFileHook(filepath.Join(rep.RepoRoot, repo.LogsDirName), config)
		if err != nil {
			return errors.Wrap(err, "log initialize")
		}
		hook = fileHook
	}

	levels := map[string]string{
		App:            config.Module.App,
		Executor:       config.Module.Executor,
		Storage:        config.Module.Storage,
		SystemContract: config.Module.SystemContract,
		Vault:          config.Module.Vault,
	}

	m := make(map[string]*logrus.Entry, len(levels))
	for module, level := range levels {
		if level == "" {
			level = config.Level
		}
		l := logrus.New()
		l.SetReportCaller(config.ReportCaller)
		l.SetFormatter(&logrus.TextFormatter{
			ForceColors:      config.EnableColor,
			DisableColors:    !config.EnableColor,
			DisableTimestamp: config.DisableTimestamp,
			FullTimestamp:    true,
			TimestampFormat:  "2006-01-02T15:04:05.000",
		})
		l.SetLevel(ParseLevel(level))
		if hook != nil {
			l.AddHook(hook)
		}
		m[module] = newWithModule(l, module)
	}

	w = &LoggerWrapper{loggers: m}
	return nil
}

func newFileHook(dir string, config repo.Log) (logrus.Hook, error) {
	writer, err := rotatelogs.New(
		filepath.Join(dir, config.Filename+".%Y%m%d%H%M.log"),
		rotatelogs.WithLinkName(filepath.Join(dir, config.Filename+".log")),
		rotatelogs.WithMaxAge(time.Duration(config.MaxAge)*24*time.Hour),
		rotatelogs.WithRotationTime(config.RotationTime.ToDuration()),
	)
	if err != nil {
		return nil, err
	}

	return lfshook.NewHook(lfshook.WriterMap{
		logrus.DebugLevel: writer,
		logrus.InfoLevel:  writer,
		logrus.WarnLevel:  writer,
		logrus.ErrorLevel: writer,
		logrus.FatalLevel: writer,
		logrus.PanicLevel: writer,
	}, &logrus.JSONFormatter{}), nil
}

// ParseLevel falls back to info on unknown level names
func ParseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func Logger(name string) logrus.FieldLogger {
	return w.loggers[name]
}
