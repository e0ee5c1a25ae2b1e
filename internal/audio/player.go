package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// Player streams a Synth to the default output device.
type Player struct {
	synth  *Synth
	stream *portaudio.Stream
}

func NewPlayer(s *Synth) *Player {
	return &Player{synth: s}
}

func (p *Player) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio: init: %w", err)
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, p.synth.Process)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("audio: open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("audio: start stream: %w", err)
	}

	p.stream = stream
	return nil
}

func (p *Player) Stop() error {
	if p.stream == nil {
		return nil
	}
	p.stream.Stop()
	err := p.stream.Close()
	p.stream = nil
	portaudio.Terminate()
	return err
}
