package helpers

// Raw generator outputs used across parser, generation and gateway tests.
var (
	// SampleFlaskOutput is a well-formed multi-file response for a flask app.
	SampleFlaskOutput = `PROJECT_TYPE: flask

FILES:
--- requirements.txt ---
flask==3.0.0

--- app.py ---
from flask import Flask

app = Flask(__name__)

@app.route("/")
def index():
    return "todo"

if __name__ == "__main__":
    app.run(port=5000)

STRUCTURE:
app.py
requirements.txt

SETUP:
pip install -r requirements.txt

RUN:
python app.py

PORT: 5000
`

	// SampleReactOutput is a well-formed multi-file response for a react app.
	SampleReactOutput = `PROJECT_TYPE: react

FILES:
--- package.json ---
{
  "name": "todo",
  "dependencies": {
    "react": "^18.0.0",
    "react-dom": "^18.0.0"
  },
  "scripts": { "start": "react-scripts start" }
}

--- src/App.js ---
export default function App() {
  return <h1>Todo</h1>;
}

--- src/index.js ---
import React from "react";

STRUCTURE:
package.json
src/App.js
src/index.js

SETUP:
npm install

RUN:
npm start

PORT: 5555
`

	// SampleFencedPythonOutput has no FILES: section, only a fenced snippet.
	SampleFencedPythonOutput = "Here is the script you asked for:\n\n```python\nprint(\"hello\")\n```\n"

	// SampleRouterResponse is a well-formed router classification.
	SampleRouterResponse = "TASK_TYPE: coding\nCONFIDENCE: 0.95\nREASONING: The user wants a program written."
)
