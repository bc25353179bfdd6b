package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/codec"
	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/entities"
	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/gateways/edgex"
	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/gateways/edgex/mqtt"
	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/gateways/edgex/network"
	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/gateways/filestore"
	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/logging"
	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/metrics"
	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/rules"
	"github.com/janael-pinheiro/edgex-rules-sdk-golang/pkg/utils"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const usage = `usage: rulectl [flags] <command> [args]

commands:
  list                 print the rules stored for the device
  set <rule.yaml>      send a rule to the device and store it
  delete <id>          delete a rule by id
  clear                delete every rule
  encode <rule.yaml>   print the SetRule payload of a rule
  decode <payload>     print the rule packed in a SetRule payload
`

type options struct {
	configPath string
	envPath    string
	device     string
	jsonLogs   bool
}

// closer is implemented by the message bus dispatchers.
type closer interface {
	Close() error
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("rulectl", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { fmt.Fprint(stderr, usage) }
	var opts options
	flags.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&opts.envPath, "env", ".env", "environment file loaded before the configuration")
	flags.StringVar(&opts.device, "device", "", "device name, overrides the configuration")
	flags.BoolVar(&opts.jsonLogs, "json-logs", false, "log in JSON")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return 2
	}

	command, rest := flags.Arg(0), flags.Args()[1:]
	switch command {
	case "encode":
		return report(stdout, encode(rest, stdout))
	case "decode":
		return report(stdout, decode(rest, stdout))
	case "list", "set", "delete", "clear":
	default:
		flags.Usage()
		return 2
	}

	conf, err := loadConfig(opts)
	if err != nil {
		return report(stdout, err)
	}
	logger := logging.NewLogrus(conf.LogLevel, stderr)
	if opts.jsonLogs {
		logger.WithJSON()
	}
	log := logger.Get("rulectl")

	ctx := context.Background()
	timeout := parseTimeout(conf.Timeout, log)
	store, dispatcher, err := buildGateways(conf, timeout, logger)
	if err != nil {
		return report(stdout, err)
	}
	if c, ok := dispatcher.(closer); ok {
		defer c.Close()
	}

	manager := rules.NewManager(ctx, conf.Device, store, dispatcher, log, rules.WithMetrics(metrics.New(prometheus.NewRegistry())))
	switch command {
	case "list":
		ruleSet, err := manager.List(ctx)
		if err != nil {
			return report(stdout, err)
		}
		return report(stdout, printJSON(stdout, ruleSet))
	case "set":
		rule, err := readRule(rest)
		if err != nil {
			return report(stdout, err)
		}
		return outcome(stdout, manager.AddOrReplace(ctx, rule))
	case "delete":
		id, err := parseID(rest)
		if err != nil {
			return report(stdout, err)
		}
		return outcome(stdout, manager.Delete(ctx, id))
	default:
		return outcome(stdout, manager.ClearAll(ctx))
	}
}

func loadConfig(opts options) (entities.Config, error) {
	if err := utils.LoadEnvironment(opts.envPath); err != nil {
		return entities.Config{}, errors.Wrap(err, "load environment file")
	}
	conf := entities.Config{}
	if opts.configPath != "" {
		parsed, err := utils.ConfigurationParser(opts.configPath, conf)
		if err != nil {
			return conf, errors.Wrap(err, "parse configuration")
		}
		conf = parsed
	}
	conf = utils.ApplyEnvironment(conf)
	if opts.device != "" {
		conf.Device = opts.device
	}
	if conf.Device == "" {
		return conf, errors.New("no device name, use -device or DEVICE_NAME")
	}
	return conf, nil
}

func parseTimeout(value string, log *logrus.Entry) time.Duration {
	if value == "" {
		return 0
	}
	timeout, err := time.ParseDuration(value)
	if err != nil {
		log.WithError(err).Warn("ignoring invalid timeout")
		return 0
	}
	return timeout
}

// buildGateways picks the record store and command channel for the
// configured transport.
func buildGateways(conf entities.Config, timeout time.Duration, logger *logging.Logrus) (rules.RecordStore, rules.CommandDispatcher, error) {
	switch conf.Transport {
	case entities.TransportFile:
		store := filestore.NewStore(conf.FileStore.Path, logger.Get("FileStore"))
		return store, acceptingDispatcher{logger.Get("FileStore")}, nil
	case entities.TransportAMQP:
		dispatcher, err := network.DialDispatcher(conf.AMQP.URL, timeout, logger.Get("AMQP"))
		if err != nil {
			return nil, nil, err
		}
		return edgex.NewMetadataClient(conf.EdgeX.MetadataURL, timeout, logger.Get("Metadata")), dispatcher, nil
	case entities.TransportMQTT:
		dispatcher, err := mqtt.DialDispatcher(conf.MQTT, timeout, logger.Get("MQTT"))
		if err != nil {
			return nil, nil, err
		}
		return edgex.NewMetadataClient(conf.EdgeX.MetadataURL, timeout, logger.Get("Metadata")), dispatcher, nil
	case entities.TransportREST:
		return edgex.NewMetadataClient(conf.EdgeX.MetadataURL, timeout, logger.Get("Metadata")),
			edgex.NewCommandClient(conf.EdgeX.CommandURL, timeout, logger.Get("Command")), nil
	default:
		return nil, nil, errors.Errorf("unknown transport %q", conf.Transport)
	}
}

// acceptingDispatcher stands in for a device when rules are edited offline.
type acceptingDispatcher struct {
	log *logrus.Entry
}

func (a acceptingDispatcher) Send(ctx context.Context, device, command string, payload map[string]interface{}) (entities.CommandResult, error) {
	a.log.WithFields(logrus.Fields{"Device": device, "Command": command}).Info("offline mode, command not sent")
	return entities.CommandResult{StatusCode: 200}, nil
}

func encode(args []string, stdout io.Writer) error {
	rule, err := readRule(args)
	if err != nil {
		return err
	}
	frame, err := codec.Encode(rule)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, codec.FrameToPayload(frame))
	return err
}

func decode(args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return errors.New("decode expects one payload argument")
	}
	frame, err := codec.PayloadToFrame(args[0])
	if err != nil {
		return err
	}
	rule, err := codec.Decode(frame)
	if err != nil {
		return err
	}
	return printJSON(stdout, rule)
}

func readRule(args []string) (entities.Rule, error) {
	if len(args) != 1 {
		return entities.Rule{}, errors.New("expected one rule file argument")
	}
	return utils.ConfigurationParser(args[0], entities.Rule{})
}

func parseID(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("delete expects one rule id")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, errors.Wrapf(err, "invalid rule id %q", args[0])
	}
	return id, nil
}

func printJSON(stdout io.Writer, value interface{}) error {
	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// report prints failures as a Result and maps them to the exit code.
func report(stdout io.Writer, err error) int {
	if err == nil {
		return 0
	}
	_ = printJSON(stdout, entities.NewResult(err))
	return 1
}

// outcome always prints the Result of a mutating command.
func outcome(stdout io.Writer, err error) int {
	_ = printJSON(stdout, entities.NewResult(err))
	if err != nil {
		return 1
	}
	return 0
}
