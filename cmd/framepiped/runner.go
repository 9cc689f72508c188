package main

import (
	"github.com/tauraamui/framepipe/pkg/configdef"
	db "github.com/tauraamui/framepipe/pkg/database"
	"github.com/tauraamui/framepipe/pkg/log"
	"github.com/tauraamui/framepipe/pkg/pipeline"
	"github.com/tauraamui/framepipe/pkg/process"
	"github.com/tauraamui/framepipe/pkg/render"
	"github.com/tauraamui/framepipe/pkg/video/videogen"
	"github.com/tauraamui/xerror"
)

// runner holds the pipeline and the render loop consuming from it
// for the lifetime of one foreground run.
type runner struct {
	pipeline   *pipeline.Pipeline
	texture    *render.Texture
	render     process.Process
	renderDone chan interface{}
}

var openSessionJournal = func() (pipeline.SessionRecorder, error) {
	return db.SessionJournal()
}

// openRecorder falls back to running without a journal, sessions are
// then only reported in the log.
func openRecorder() pipeline.SessionRecorder {
	recorder, err := openSessionJournal()
	if err != nil {
		log.Warn("Session journal unavailable: %s", err.Error())
		return nil
	}
	return recorder
}

func resolveGenerator(values configdef.Pipeline) (videogen.Generator, error) {
	if values.Generator == videogen.LABEL {
		return videogen.Label(values.Title), nil
	}
	return videogen.Resolve(values.Generator)
}

func pipelineSettings(values configdef.Values, recorder pipeline.SessionRecorder) (pipeline.Settings, error) {
	gen, err := resolveGenerator(values.Pipeline)
	if err != nil {
		return pipeline.Settings{}, err
	}

	return pipeline.Settings{
		Capacity:    values.Pipeline.Capacity,
		Generator:   gen,
		FPS:         values.Pipeline.FPS,
		PopTimeout:  values.Pipeline.PopTimeout(),
		StopTimeout: values.Pipeline.StopTimeout(),
		Recorder:    recorder,
	}, nil
}

func startRunner(values configdef.Values, recorder pipeline.SessionRecorder) (*runner, error) {
	settings, err := pipelineSettings(values, recorder)
	if err != nil {
		return nil, err
	}

	texture, err := render.NewTexture(values.Display.Width, values.Display.Height)
	if err != nil {
		return nil, err
	}

	p := pipeline.New(settings)
	if err := p.Start(values.Pipeline.Width, values.Pipeline.Height); err != nil {
		return nil, xerror.Errorf("unable to start frame pipeline: %w", err)
	}

	r := runner{
		pipeline:   p,
		texture:    texture,
		render:     render.NewRenderProcess(p, texture, values.Display.FPS),
		renderDone: make(chan interface{}),
	}
	r.render.Setup().Start()
	go func() {
		defer close(r.renderDone)
		r.render.Wait()
	}()

	return &r, nil
}

// shutdown stops the render loop before the pipeline so no frame is
// requested from a stopping session.
func (r *runner) shutdown() error {
	r.render.Stop()
	<-r.renderDone

	stats := r.pipeline.Stats()
	stopErr := r.pipeline.Stop()
	log.Info(
		"Session [%s] finished: %d frames rendered, last frame %d",
		stats.SessionID, r.texture.Uploads(), r.texture.LastSeq(),
	)

	if err := r.pipeline.Err(); err != nil {
		return xerror.Errorf("frame pipeline failed: %w", err)
	}
	return stopErr
}
