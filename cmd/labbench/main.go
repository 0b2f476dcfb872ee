package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lab-automation/backend/internal/config"
	"github.com/lab-automation/backend/internal/i18n"
	"github.com/lab-automation/backend/internal/instrument"
	"github.com/lab-automation/backend/internal/library"
	"github.com/lab-automation/backend/internal/logging"
	"github.com/lab-automation/backend/internal/models"
	"github.com/lab-automation/backend/internal/project"
	"github.com/lab-automation/backend/internal/scope"
	"github.com/lab-automation/backend/internal/settings"
	"github.com/lab-automation/backend/internal/sweep"
	"github.com/lab-automation/backend/internal/visa"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// app bundles the collaborators every command needs.
type app struct {
	cfg   *config.AppConfig
	store *settings.Store
	lib   *library.Library
	tr    *i18n.Translator
}

func main() {
	configPath := "labbench.yaml"
	if v := os.Getenv("LABBENCH_CONFIG"); v != "" {
		configPath = v
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Init(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.File)
	defer logger.Close()

	store, err := settings.Open(cfg.Storage.SettingsDBPath)
	if err != nil {
		logging.L().Fatal("settings store unavailable: %v", err)
	}
	defer store.Close()

	var lib *library.Library
	if cfg.Library.UseCache {
		lib = library.LoadCached(cfg.Library.CatalogPath)
	} else {
		lib = library.Load(cfg.Library.CatalogPath)
	}

	tr := i18n.New(cfg.UI.LanguageDirectory, store.GetString(settings.CategoryUI, "language", "en"))

	a := &app{cfg: cfg, store: store, lib: lib, tr: tr}

	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	if err := a.run(args[0], args[1:]); err != nil {
		logging.L().Error("%s: %v", args[0], err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("labbench", Version, "(built", BuildTime+")")
	fmt.Println(`usage: labbench <command> [flags]

commands:
  new               create a project and its instrument file
  open              open a project and list its files
  add-file          generate and attach a .eff or .was file
  add-existing      attach an existing .eff or .was file
  instruments       list (and validate) instrument instances
  add-instrument    add or replace an instrument instance
  remove-instrument remove an instrument instance
  vars              print setpoint and measured variable names
  set-sweep         set a Vin/Iout sweep in a .eff file
  set-scope         set per-division values in a .was file
  visa              compose a VISA address
  lib               print the instrument library catalog
  settings          list, get or set preferences`)
}

func (a *app) naming() project.Naming {
	return project.Naming{
		Advanced: a.store.GetBool(settings.CategoryNaming, "advanced", false),
		Inst:     a.store.GetBool(settings.CategoryNaming, "inst", false),
		Eff:      a.store.GetBool(settings.CategoryNaming, "eff", false),
		Was:      a.store.GetBool(settings.CategoryNaming, "was", false),
	}
}

func (a *app) run(cmd string, args []string) error {
	switch cmd {
	case "new":
		return a.cmdNew(args)
	case "open":
		return a.cmdOpen(args)
	case "add-file":
		return a.cmdAddFile(args)
	case "add-existing":
		return a.cmdAddExisting(args)
	case "instruments":
		return a.cmdInstruments(args)
	case "add-instrument":
		return a.cmdAddInstrument(args)
	case "remove-instrument":
		return a.cmdRemoveInstrument(args)
	case "vars":
		return a.cmdVars(args)
	case "set-sweep":
		return a.cmdSetSweep(args)
	case "set-scope":
		return a.cmdSetScope(args)
	case "visa":
		return a.cmdVisa(args)
	case "lib":
		return a.cmdLib(args)
	case "settings":
		return a.cmdSettings(args)
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) cmdNew(args []string) error {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	dir := fs.String("dir", ".", "project directory")
	name := fs.String("name", "", "project name")
	fs.Parse(args)

	st := project.NewStore(*dir, a.naming())
	p, err := st.Create(*name)
	if err != nil {
		return err
	}
	if err := a.store.Set(settings.CategorySession, "last_project", st.Path(p)); err != nil {
		logging.L().Warn("last project not remembered: %v", err)
	}
	fmt.Printf("%s: %s (%s)\n", a.tr.T("project_created"), p.ProjectName, p.ProjectID)
	return nil
}

func (a *app) cmdOpen(args []string) error {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	file := fs.String("file", "", "project .json file")
	fs.Parse(args)

	p, err := project.Open(*file)
	if err != nil {
		return err
	}
	if err := a.store.Set(settings.CategorySession, "last_project", *file); err != nil {
		logging.L().Warn("last project not remembered: %v", err)
	}
	fmt.Printf("%s: %s\n", a.tr.T("project_opened"), p.ProjectName)
	for _, f := range p.FileNames() {
		fmt.Println(" ", f)
	}
	return nil
}

func (a *app) cmdAddFile(args []string) error {
	fs := flag.NewFlagSet("add-file", flag.ExitOnError)
	projPath := fs.String("project", "", "project .json file")
	kind := fs.String("type", ".eff", "file kind: .eff or .was")
	name := fs.String("name", "", "base file name")
	fs.Parse(args)

	p, err := project.Open(*projPath)
	if err != nil {
		return err
	}
	st := project.NewStore(filepath.Dir(*projPath), a.naming())
	created, err := st.AttachGenerated(p, *kind, *name)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", a.tr.T("file_added"), created)
	return nil
}

func (a *app) cmdAddExisting(args []string) error {
	fs := flag.NewFlagSet("add-existing", flag.ExitOnError)
	projPath := fs.String("project", "", "project .json file")
	file := fs.String("file", "", "existing .eff or .was file")
	fs.Parse(args)

	p, err := project.Open(*projPath)
	if err != nil {
		return err
	}
	st := project.NewStore(filepath.Dir(*projPath), a.naming())
	if err := st.AttachExisting(p, *file); err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", a.tr.T("file_added"), filepath.Base(*file))
	return nil
}

func (a *app) cmdInstruments(args []string) error {
	fs := flag.NewFlagSet("instruments", flag.ExitOnError)
	file := fs.String("file", "", "instrument .inst file")
	validate := fs.Bool("validate", false, "validate instances against the library")
	fs.Parse(args)

	doc, err := instrument.Load(*file)
	if err != nil {
		return err
	}
	for i := range doc.Instruments {
		inst := &doc.Instruments[i]
		fmt.Printf("%s (%s %s/%s, %s) %s\n", inst.InstanceName, inst.InstrumentType,
			inst.SeriesID, inst.ModelID, inst.ConnectionType, inst.VisaAddress)
		for _, ch := range inst.Channels {
			name := ch.Variable
			if name == "" {
				name = ch.MeasuredVariable
			}
			fmt.Printf("  ch%d: %s (att %.3g)\n", ch.Index, name, ch.Attenuation)
		}
		if *validate {
			if err := instrument.Validate(inst, a.lib); err != nil {
				fmt.Printf("  !! %v\n", err)
			}
		}
	}
	return nil
}

func (a *app) cmdAddInstrument(args []string) error {
	fs := flag.NewFlagSet("add-instrument", flag.ExitOnError)
	file := fs.String("file", "", "instrument .inst file")
	name := fs.String("name", "", "instance name")
	class := fs.String("type", "", "instrument class")
	seriesID := fs.String("series", "", "library series id")
	modelID := fs.String("model", "", "library model id")
	conn := fs.String("conn", "", "connection type")
	addr := fs.String("visa", "", "composed VISA address")
	channels := fs.String("channels", "", "channel specs: index:variable[:attenuation], semicolon separated")
	measure := fs.String("measure", models.MeasureVoltage, "measure type for datalogger channels")
	fs.Parse(args)

	if strings.TrimSpace(*name) == "" {
		return fmt.Errorf("instance name is required")
	}
	chs, err := parseChannelSpecs(*channels, *class, *measure)
	if err != nil {
		return err
	}
	inst := models.InstrumentInstance{
		InstanceName:   strings.TrimSpace(*name),
		InstrumentType: *class,
		SeriesID:       *seriesID,
		ModelID:        *modelID,
		ConnectionType: *conn,
		VisaAddress:    *addr,
		Channels:       chs,
	}
	if *addr != "" {
		if err := visa.Check(*addr); err != nil {
			return err
		}
	}
	if err := instrument.Validate(&inst, a.lib); err != nil {
		return err
	}
	doc, err := instrument.Load(*file)
	if err != nil {
		return err
	}
	instrument.AddOrReplace(doc, inst)
	if err := instrument.Save(*file, doc); err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", a.tr.T("instrument_added"), inst.InstanceName)
	return nil
}

// parseChannelSpecs decodes "index:variable[:attenuation]" entries separated
// by semicolons. The variable lands in the field matching the instrument
// class: setpoint classes use variable, dataloggers use measured_variable.
func parseChannelSpecs(spec, class, measure string) ([]models.ChannelConfig, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	var out []models.ChannelConfig
	for _, entry := range strings.Split(spec, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) < 2 {
			return nil, fmt.Errorf("channel spec %q: want index:variable[:attenuation]", entry)
		}
		var index int
		if _, err := fmt.Sscanf(parts[0], "%d", &index); err != nil {
			return nil, fmt.Errorf("channel spec %q: bad index: %w", entry, err)
		}
		ch := models.ChannelConfig{Index: index, Used: true, Attenuation: 1.0}
		if class == models.ClassDataloggers {
			ch.MeasuredVariable = parts[1]
			ch.MeasureType = measure
		} else {
			ch.Variable = parts[1]
		}
		if len(parts) > 2 {
			if _, err := fmt.Sscanf(parts[2], "%g", &ch.Attenuation); err != nil {
				return nil, fmt.Errorf("channel spec %q: bad attenuation: %w", entry, err)
			}
		}
		out = append(out, ch)
	}
	return out, nil
}

func (a *app) cmdRemoveInstrument(args []string) error {
	fs := flag.NewFlagSet("remove-instrument", flag.ExitOnError)
	file := fs.String("file", "", "instrument .inst file")
	name := fs.String("name", "", "instance name")
	fs.Parse(args)

	doc, err := instrument.Load(*file)
	if err != nil {
		return err
	}
	if !instrument.Remove(doc, *name) {
		fmt.Printf("%s: %s\n", a.tr.T("instrument_not_found"), *name)
		return nil
	}
	return instrument.Save(*file, doc)
}

func (a *app) cmdVars(args []string) error {
	fs := flag.NewFlagSet("vars", flag.ExitOnError)
	file := fs.String("file", "", "instrument .inst file")
	fs.Parse(args)

	doc, err := instrument.Load(*file)
	if err != nil {
		return err
	}
	setpoint, measured := instrument.ExtractVariableNames(doc)
	fmt.Println("setpoint:", strings.Join(setpoint, ", "))
	fmt.Println("measured:", strings.Join(measured, ", "))
	return nil
}

func (a *app) cmdSetSweep(args []string) error {
	fs := flag.NewFlagSet("set-sweep", flag.ExitOnError)
	file := fs.String("file", "", "sweep .eff file")
	axis := fs.String("axis", "vin", "sweep axis: vin or iout")
	list := fs.String("list", "", "comma-separated values (list mode)")
	start := fs.Float64("start", 0, "range start")
	stop := fs.Float64("stop", 0, "range stop")
	points := fs.Int("points", 0, "range points (range mode when > 0)")
	sweepVar := fs.String("sweep-var", "", "sweep variable name")
	measuredVar := fs.String("measured-var", "", "measured variable name")
	instFile := fs.String("inst", "", "instrument file to validate variable names against")
	fs.Parse(args)

	axisKey := models.AxisVin
	if strings.EqualFold(*axis, "iout") {
		axisKey = models.AxisIout
	}
	doc, err := sweep.Load(*file)
	if err != nil {
		return err
	}
	switch {
	case *list != "":
		if err := sweep.SetList(doc, axisKey, *list); err != nil {
			return err
		}
	case *points > 0:
		sweep.SetRange(doc, axisKey, *start, *stop, *points)
	}
	if *sweepVar != "" {
		doc.SweepVariable = *sweepVar
	}
	if *measuredVar != "" {
		doc.MeasuredVariable = *measuredVar
	}
	if *instFile != "" {
		instDoc, err := instrument.Load(*instFile)
		if err != nil {
			return err
		}
		setpoint, measured := instrument.ExtractVariableNames(instDoc)
		if err := sweep.ValidateVariables(doc, setpoint, measured); err != nil {
			return err
		}
	}
	return sweep.Save(*file, doc)
}

func (a *app) cmdSetScope(args []string) error {
	fs := flag.NewFlagSet("set-scope", flag.ExitOnError)
	file := fs.String("file", "", "oscilloscope .was file")
	timeDiv := fs.String("time", "", "time per division, engineering notation accepted")
	voltDiv := fs.String("volt", "", "volts per division")
	fs.Parse(args)

	doc, err := scope.Load(*file)
	if err != nil {
		return err
	}
	if err := scope.SetDivisions(doc, *timeDiv, *voltDiv); err != nil {
		return err
	}
	return scope.Save(*file, doc)
}

func (a *app) cmdVisa(args []string) error {
	fs := flag.NewFlagSet("visa", flag.ExitOnError)
	connType := fs.String("type", "", "connection type (lxi, gpib, usb, rs232, ...)")
	ip := fs.String("ip", "", "LXI ip address")
	port := fs.String("port", "", "LXI port")
	board := fs.String("board", "", "GPIB board")
	addr := fs.String("addr", "", "GPIB address")
	serial := fs.String("serial", "", "USB serial")
	com := fs.String("com", "", "serial COM port")
	baud := fs.String("baud", "", "serial baudrate")
	raw := fs.String("raw", "", "raw address for other types")
	fs.Parse(args)

	address := visa.Compose(*connType, visa.Params{
		IP: *ip, Port: *port,
		Board: *board, Address: *addr,
		Serial:  *serial,
		COMPort: *com, BaudRate: *baud,
		Raw: *raw,
	})
	if err := visa.Check(address); err != nil {
		return err
	}
	fmt.Println(address)
	return nil
}

func (a *app) cmdLib(args []string) error {
	for _, class := range models.LibraryClasses {
		fmt.Println(class)
		for _, series := range a.lib.SeriesFor(class) {
			fmt.Printf("  %s (%s)\n", series.SeriesName, series.SeriesID)
			for i := range series.Models {
				m := &series.Models[i]
				var conns []string
				for _, ct := range library.ConnectionTypesFor(m) {
					conns = append(conns, ct.Type)
				}
				fmt.Printf("    %s (%s), %d channels, conn: %s\n",
					m.Name, m.ID, m.Capabilities.ChannelCount(), strings.Join(conns, "/"))
			}
		}
	}
	return nil
}

func (a *app) cmdSettings(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: settings list | get <category> <key> | set <category> <key> <value>")
	}
	switch args[0] {
	case "list":
		all, err := a.store.All()
		if err != nil {
			return err
		}
		for _, st := range all {
			fmt.Printf("%s.%s = %s (%s)\n", st.Category, st.Key, st.Value, st.ValueType)
		}
		return nil
	case "get":
		if len(args) != 3 {
			return fmt.Errorf("usage: settings get <category> <key>")
		}
		v, err := a.store.Get(args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Println(v)
		return nil
	case "set":
		if len(args) != 4 {
			return fmt.Errorf("usage: settings set <category> <key> <value>")
		}
		return a.store.Set(args[1], args[2], args[3])
	default:
		return fmt.Errorf("unknown settings action %q", args[0])
	}
}
