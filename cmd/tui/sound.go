package main

import (
	"log"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// soundPlayer はイベントに合わせて短い効果音を鳴らし、プレイ中は BGM をループ再生します。
// スピーカーを初期化できない環境では音を出さず、BGM の再生状態だけを保持します。
type soundPlayer struct {
	enabled bool
	music   *beep.Ctrl
	playing bool // BGM を再生中かどうか (ゲームループのゴルーチンからのみ参照する)
}

func newSoundPlayer() *soundPlayer {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		// 音が出なくてもゲームは続けられる
		log.Printf("[Sound] Audio initialization failed: %v", err)
		return &soundPlayer{}
	}
	return &soundPlayer{enabled: true}
}

func (p *soundPlayer) tone(freq float64, d time.Duration) {
	if p == nil || !p.enabled {
		return
	}
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		log.Printf("[Sound] SineTone failed: %v", err)
		return
	}
	speaker.Play(beep.Take(sampleRate.N(d), sine))
}

// rowsCleared は消去した行数が多いほど高い音を鳴らします。
func (p *soundPlayer) rowsCleared(n int) {
	p.tone(660+110*float64(n), 80*time.Millisecond)
}

func (p *soundPlayer) gameOver() {
	p.tone(220, 400*time.Millisecond)
}

// setMusic は BGM の再生と停止を切り替えます。最初の再生時にストリームを作成します。
func (p *soundPlayer) setMusic(playing bool) {
	if p == nil || p.playing == playing {
		return
	}
	p.playing = playing
	if !p.enabled {
		return
	}
	if p.music == nil {
		if !playing {
			return
		}
		p.music = &beep.Ctrl{Streamer: newMelodyGenerator(sampleRate), Paused: false}
		speaker.Play(p.music)
		return
	}
	speaker.Lock()
	p.music.Paused = !playing
	speaker.Unlock()
}

// melody は BGM の音階 (Hz) です。0 は休符を表します。
var melody = []float64{330, 247, 262, 294, 262, 247, 220, 0, 220, 262, 330, 0, 294, 262, 247, 0}

// melodyGenerator は melody を一定のテンポで繰り返し生成します。
type melodyGenerator struct {
	sr      beep.SampleRate
	pos     int
	perNote int
}

func newMelodyGenerator(sr beep.SampleRate) *melodyGenerator {
	return &melodyGenerator{
		sr:      sr,
		perNote: sr.N(200 * time.Millisecond),
	}
}

func (g *melodyGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		note := (g.pos / g.perNote) % len(melody)
		inNote := g.pos % g.perNote

		sample := 0.0
		if freq := melody[note]; freq > 0 {
			t := float64(inNote) / float64(g.sr)
			env := 1.0 - float64(inNote)/float64(g.perNote)
			sample = 0.08 * env * math.Sin(2*math.Pi*freq*t)
		}

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *melodyGenerator) Err() error {
	return nil
}

func (p *soundPlayer) close() {
	if p != nil && p.enabled {
		speaker.Close()
	}
}
